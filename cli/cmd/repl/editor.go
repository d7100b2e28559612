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

	"github.com/ardnew/snek/lang"
	"github.com/ardnew/snek/log"
)

const defaultEditor = "vi"

// editSessionCommand implements [tea.ExecCommand] for the session
// edit-run-retry loop. It writes the session source to a temp file, opens the
// user's editor, and runs the result in a fresh session. On error the user is
// prompted to re-edit; declining exits the program.
type editSessionCommand struct {
	text    string
	opts    []lang.Option
	ctxFunc func() context.Context
	result  *session
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editSessionCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editSessionCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editSessionCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. An emptied file cancels the edit and leaves
// result nil. If the user declines to re-edit, it returns [ErrEditDeclined].
func (c *editSessionCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp(os.TempDir(), "snek-repl-*.snek")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	content := c.text

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		if strings.TrimSpace(data) == "" {
			return nil
		}

		sess := newSession(c.opts)

		_, _, runErr := sess.exec(ctx, data)

		c.logger.TraceContext(ctx, "editor run attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", runErr == nil),
		)

		if runErr == nil {
			c.result = sess

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s", lang.Diagnostic(runErr, data))
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		if !confirm(c.stdin) {
			return ErrEditDeclined
		}

		content = data
	}
}

// confirm reads one line from r and reports whether it is not a "no".
func confirm(r io.Reader) bool {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(strings.ToLower(scanner.Text()))

	return response != "n" && response != "no"
}

// runEditor launches the user's editor on the given file path and returns
// the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
