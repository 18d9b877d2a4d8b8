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

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/tinyscript/lang"
	"github.com/ardnew/tinyscript/log"
)

const defaultEditor = "vi"

var _ tea.ExecCommand = (*editCommand)(nil)

// editCommand implements [tea.ExecCommand]. It opens the user's editor on
// a temporary script, parses the result, and offers to edit again when the
// script does not parse. Multi-line blocks are entered this way.
type editCommand struct {
	ctx    context.Context
	logger log.Logger
	source string       // initial editor content, replaced by the accepted source
	script *lang.Script // nil when the user saved an empty file
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

// Run executes the edit-parse-retry loop. It returns [ErrEditDeclined] if
// the user declines to fix a script that does not parse.
func (c *editCommand) Run() error {
	f, err := os.CreateTemp("", "tinyscript-repl-*.ts")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := c.source

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(c.ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		script, err := lang.ParseString(c.ctx, "repl:edit", content, lang.WithLogger(c.logger))

		c.logger.TraceContext(c.ctx, "editor parse attempt",
			slog.Int("bytes", len(data)),
			slog.Bool("success", err == nil),
		)

		if err == nil {
			c.source, c.script = content, script

			return nil
		}

		fmt.Fprintf(c.stderr, "\nparse error: %s\n", err)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor runs $EDITOR, or vi, on path and waits for it to exit.
func runEditor(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, path string) error {
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
