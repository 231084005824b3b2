package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/sulaip1/plotscript/lang"
	"github.com/sulaip1/plotscript/log"
)

const defaultEditor = "vi"

// editSourceCommand implements [tea.ExecCommand] for the edit-parse-retry
// loop. It writes the scratch buffer to a temp file, opens the user's
// editor on it, and parses the result. On parse error the user is
// prompted to re-edit; declining exits the program. The scratch buffer
// lets multi-line definitions survive between edit invocations within a
// session.
type editSourceCommand struct {
	content string // scratch buffer contents on entry
	ctxFunc func() context.Context
	logger  log.Logger
	program lang.Program // parsed result; nil when the edit was cancelled
	source  string       // edited text backing program
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editSourceCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editSourceCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editSourceCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. It opens the editor on the
// scratch buffer, parses the result, and prompts on error. If the user
// declines to re-edit, it returns [ErrEditDeclined]. An emptied buffer
// cancels the edit.
func (c *editSourceCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp(os.TempDir(), "plotscript-repl-*.pls")
	if err != nil {
		return err
	}

	tmpPath := f.Name()
	f.Close()

	defer os.Remove(tmpPath)

	content := c.content

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		if len(data) == 0 {
			// Emptied buffer; treat as a cancelled edit.
			return nil
		}

		program, parseErr := lang.ParseProgram(string(data))

		c.logger.TraceContext(
			ctx,
			"editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.program = program
			c.source = string(data)

			return nil
		}

		fmt.Fprintf(c.stderr, "\nParse error: %s\n", parseErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		// Carry the failed content into the next editor iteration.
		content = string(data)
	}
}

// runEditor launches the user's editor on the given file path and waits
// for it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
