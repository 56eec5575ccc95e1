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

	"github.com/ardnew/dolang/lang"
	"github.com/ardnew/dolang/pkg"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-parse-retry loop. It
// writes the pending input to a temp file, opens the user's editor, and
// parses the result. On a parse error the user is prompted to re-edit.
type editCommand struct {
	ctx     context.Context
	session *Session
	content string

	// Set by Run when the edited script parses.
	prog   *lang.Program
	source string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. An empty file cancels the edit
// without error. If the user declines to re-edit after a parse error, Run
// returns [ErrEditDeclined].
func (c *editCommand) Run() error {
	f, err := os.CreateTemp(os.TempDir(), pkg.Name+"-repl-*"+pkg.Extension)
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Close(); err != nil {
		return err
	}

	content := c.content
	prompt := bufio.NewScanner(c.stdin)

	for {
		if err := os.WriteFile(tmpPath, []byte(content), historyFileMode); err != nil {
			return err
		}

		if err := runEditor(c.ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		prog, perr := c.session.Parse(c.ctx, content)
		c.session.logger.TraceContext(c.ctx, "editor parse attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", perr == nil),
		)

		if perr == nil {
			c.prog, c.source = prog, content

			return nil
		}

		fmt.Fprint(c.stderr, "\n"+lang.WrapError(perr).Snippet(content))
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		if !prompt.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(prompt.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// editor returns the command line of the user's editor.
func editor() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if f := strings.Fields(os.Getenv(env)); len(f) > 0 {
			return f
		}
	}

	return []string{defaultEditor}
}

// runEditor launches the user's editor on the given file path and waits for
// it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	args := append(editor(), path)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
