package repl

import (
	"slices"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/sulaip1/plotscript/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "reset", "clear", "quit"}

// isWordBoundary reports whether the rune delimits a word for completion
// purposes. PlotScript symbols may contain arithmetic characters (+, -,
// ^, and so on), so only the structural characters of the syntax break
// words: parentheses, string quotes, the comment marker, and whitespace.
func isWordBoundary(r rune) bool {
	switch r {
	case '(', ')', '"', ';', ' ', '\t', '\n', '\r':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor position and its byte
// boundaries within input. The word is empty when the cursor sits on a
// boundary (after a space, inside empty parens, start of line).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// evalCandidates returns the completion candidates for evaluate mode:
// every name bound in the global environment, builtin procedures and
// user definitions alike, plus the special-form keywords.
func (m model) evalCandidates() []string {
	names := append(m.in.Symbols(), lang.Keywords()...)
	slices.Sort(names)

	return names
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. An empty word yields no matches so the hint line stays
// visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	word, start, end := wordBounds(m.input.Value(), m.input.Position())

	if word == "" {
		return nil, nil, start, end
	}

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = m.evalCandidates()
	}

	return fuzzy.Find(word, candidates), candidates, start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized
// to fit within the given terminal width. The selected candidate (when
// tabbing) is drawn inverted.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(ellipsis)

	var (
		bar  string
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entry := lipgloss.Width(rendered)
		if i > 0 {
			entry += lipgloss.Width(sep)
		}

		if i > 0 && used+entry+reserve > width {
			bar += sep + ellipsis

			break
		}

		if i > 0 {
			bar += sep
		}

		bar += rendered
		used += entry
	}

	return bar
}

// renderCandidate draws one candidate with its matched runes
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchedRuneStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b []byte

	for i, r := range match.Str {
		ch := string(r)
		if matched[i] {
			b = append(b, highlight.Render(ch)...)
		} else {
			b = append(b, base.Render(ch)...)
		}
	}

	return string(b)
}

// previewLimit bounds the rendered length of a value preview.
const previewLimit = 48

// previewValue renders a bound value compactly for the list command.
func previewValue(value lang.Expression) string {
	s := value.String()
	if len(s) <= previewLimit {
		return s
	}

	return s[:previewLimit-3] + "..."
}
