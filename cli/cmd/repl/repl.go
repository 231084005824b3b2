package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sulaip1/plotscript/lang"
	"github.com/sulaip1/plotscript/log"
	"github.com/sulaip1/plotscript/render"
)

// evalDoneMsg is sent when an asynchronous evaluation finishes.
type evalDoneMsg struct {
	result lang.Expression
	err    error
}

// editProgramMsg is sent when editing produced a parseable program.
type editProgramMsg struct {
	program lang.Program
	source  string
}

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a
// parse error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse
// error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "» "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this cruft
  list     List defined symbols and their values
  edit     Compose multi-line source in external $EDITOR
  reset    Discard definitions and rebuild the environment
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type an expression to evaluate it
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history (mode switches to match the entry)
  Use Shift+Up/Shift+Down for history within the current mode only
  Press Ctrl+C to cancel a running evaluation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	matchedRuneStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("4")).
				Bold(true)
	selectedMatchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("4")).
				Bold(true)
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// formatCommand formats the eval-mode echo line.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control-mode echo line.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	in           *lang.Interpreter
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evaluating   bool               // an evaluation command is in flight
	cancelEval   context.CancelFunc // cancels the in-flight evaluation
	editBuffer   string             // scratch source carried between edits
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the REPL against the given interpreter. Definitions persist
// across inputs; history persists under cacheDir across sessions.
func Run(
	ctx context.Context,
	in *lang.Interpreter,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if in == nil {
		return ErrNoInterpreter
	}

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("symbol_count", len(in.Symbols())),
	)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		fmt.Printf("Warning: could not load history: %v\n", err)
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, in, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	in *lang.Interpreter,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		in:         in,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case evalDoneMsg:
		return m.finishEval(msg)

	case editProgramMsg:
		m.editBuffer = msg.source
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("expressions", len(msg.program)),
		)

		echo := tea.Println(hintStyle.Render(
			fmt.Sprintf("✔ — evaluating %d edited expressions", len(msg.program)),
		))

		return m.startEval(echo, msg.program)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 — edit cancelled."))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("🗴 — error: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	viewingHistory := m.historyIdx < m.history.Len()

	var sigHint string

	if m.mode == modeEval {
		if site := detectCallSite(input, m.input.Position()); site.inCall {
			if params, ok := m.signatureParams(site.name); ok {
				sigHint = renderSignatureHint(site.name, params, site.argIndex)
			}
		}
	}

	switch {
	case m.evaluating:
		b.WriteString(hintStyle.Render("evaluating… press Ctrl+C to cancel"))
		b.WriteString("\n")

	case viewingHistory:
		// One-based position indicator while browsing history.
		pos := m.historyIdx + 1
		total := m.history.Len()
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(pos)),
			total)
		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case strings.TrimSpace(input) == "":
		var hint string
		if m.mode == modeEval {
			hint = "Type an expression or press Esc for commands"
		} else {
			hint = "Type: help, list, edit, reset, clear, quit (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case sigHint != "":
		b.WriteString(sigHint)
		b.WriteString("\n")

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
		b.WriteString("\n")

	default:
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	// While an evaluation is in flight, only cancellation is accepted.
	if m.evaluating {
		if msg.Type == tea.KeyCtrlC && m.cancelEval != nil {
			m.cancelEval()
		}

		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycleCandidates(1)

	case tea.KeyShiftTab:
		return m.cycleCandidates(-1)

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyShiftUp:
		return m.historyPrevInMode()

	case tea.KeyShiftDown:
		return m.historyNextInMode()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.toggleMode()

	case tea.KeyRunes:
		// Space is a breaking key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows) updates the input and
	// recomputes matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycleCandidates steps the tab selection through the current matches.
// A single candidate completes and confirms immediately.
func (m model) cycleCandidates(step int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		if step > 0 {
			m.suggIdx = 0
		} else {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input
// with the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly
// one candidate remains and the typed word already equals it; deletions
// and cursor navigation pass false so edits stay free of surprise
// completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if word == candidate {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// Reset both mode inputs after submission.
	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")

	_, _ = m.history.Write(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("input", input),
	)

	echoCmd := tea.Println(formatCommand(input))

	program, err := lang.ParseProgram(input)
	if err != nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	return m.startEval(echoCmd, program)
}

// startEval launches an asynchronous evaluation of program. The model
// ignores further input until the matching [evalDoneMsg] arrives;
// Ctrl+C cancels through the evaluation context.
func (m model) startEval(echo tea.Cmd, program lang.Program) (model, tea.Cmd) {
	ctx, cancel := context.WithCancel(m.ctxFunc())

	m.evaluating = true
	m.cancelEval = cancel

	in := m.in
	run := func() tea.Msg {
		result, err := in.EvalProgram(ctx, program)

		return evalDoneMsg{result: result, err: err}
	}

	return m, tea.Sequence(echo, run)
}

// finishEval prints the outcome of an asynchronous evaluation. Plot
// results print as a primitive-count summary instead of the full
// primitive list.
func (m model) finishEval(msg evalDoneMsg) (model, tea.Cmd) {
	m.evaluating = false

	if m.cancelEval != nil {
		m.cancelEval()
		m.cancelEval = nil
	}

	if msg.err != nil {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl eval result",
			slog.String("result_type", "error"),
			slog.String("error", msg.err.Error()),
		)

		if errors.Is(msg.err, lang.ErrCancelled) {
			return m, tea.Println(hintStyle.Render("cancelled"))
		}

		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval result",
		slog.String("result_type", msg.result.Head().Kind().String()),
	)

	if summary, ok := render.Summary(msg.result); ok {
		return m, tea.Println(resultStyle.Render(summary))
	}

	return m, tea.Println(resultStyle.Render(msg.result.String()))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd := parts[0]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echoCmd, tea.Println(m.listSymbols()))

	case "r", "reset":
		if err := m.in.Reset(m.ctxFunc()); err != nil {
			return m, tea.Sequence(
				echoCmd,
				tea.Println(errorStyle.Render("error: "+err.Error())),
			)
		}

		return m, tea.Sequence(
			echoCmd,
			tea.Println(resultStyle.Render("environment reset")),
		)

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		var editCmd tea.Cmd

		m, editCmd = m.handleEdit()

		return m, tea.Sequence(echoCmd, editCmd)

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

func (m model) handleEdit() (model, tea.Cmd) {
	cmd := &editSourceCommand{
		content: m.editBuffer,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return m, tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.program == nil {
			return editCancelledMsg{}
		}

		return editProgramMsg{program: cmd.program, source: cmd.source}
	})
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		m.historyIdx--

		if entry, err := m.history.GetEntry(m.historyIdx); err == nil {
			if m.mode != entry.Mode {
				m, _ = m.switchToMode(entry.Mode)
			}

			m.input.SetValue(entry.Line)
			m.input.SetCursor(len(entry.Line))
			refreshMatches(&m, false)
		}
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++

		if entry, err := m.history.GetEntry(m.historyIdx); err == nil {
			if m.mode != entry.Mode {
				m, _ = m.switchToMode(entry.Mode)
			}

			m.input.SetValue(entry.Line)
			m.input.SetCursor(len(entry.Line))
			refreshMatches(&m, false)
		}
	} else {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

func (m model) historyPrevInMode() (model, tea.Cmd) {
	for i := m.historyIdx - 1; i >= 0; i-- {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == m.mode {
			m.historyIdx = i
			m.input.SetValue(entry.Line)
			m.input.SetCursor(len(entry.Line))
			refreshMatches(&m, false)

			break
		}
	}

	return m, nil
}

func (m model) historyNextInMode() (model, tea.Cmd) {
	for i := m.historyIdx + 1; i < m.history.Len(); i++ {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == m.mode {
			m.historyIdx = i
			m.input.SetValue(entry.Line)
			m.input.SetCursor(len(entry.Line))
			refreshMatches(&m, false)

			return m, nil
		}
	}

	// Past the end of mode-specific history: back to a fresh line.
	if m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

// listSymbols renders each value binding in the global environment with
// a compact preview. Builtin procedures are not values and do not list.
func (m model) listSymbols() string {
	var b strings.Builder

	for _, name := range m.in.Symbols() {
		value, ok := m.in.Lookup(name)
		if !ok {
			continue
		}

		b.WriteString(fmt.Sprintf("  %s %s\n", name, hintStyle.Render(previewValue(value))))
	}

	return b.String()
}

// toggleMode switches between eval and control modes, preserving the
// input state of each.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
