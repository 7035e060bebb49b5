package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/wildwinter/expression-parser/binding"
	"github.com/wildwinter/expression-parser/log"
)

const defaultEditor = "vi"

// editBindingsCommand implements [tea.ExecCommand]. It writes the current
// bindings to a temporary YAML file, opens the user's editor and loads the
// result. An invalid document prompts for another edit; declining returns
// [ErrEditDeclined].
//
// On success the document is also written to path, if set.
type editBindingsCommand struct {
	bindings *binding.Bindings
	path     string
	ctxFunc  func() context.Context
	logger   log.Logger
	result   *binding.Bindings
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

func (c *editBindingsCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editBindingsCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editBindingsCommand) SetStderr(w io.Writer) { c.stderr = w }

func (c *editBindingsCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.bindings.Encode(ctx, &buf); err != nil {
		return fmt.Errorf("encode bindings: %w", err)
	}

	f, err := os.CreateTemp("", "expression-parser-*.yaml")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Close(); err != nil {
		return err
	}

	content := buf.Bytes()

	for {
		if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}

		result, loadErr := binding.Load(ctx, bytes.NewReader(data),
			binding.WithLogger(c.logger))

		c.logger.TraceContext(ctx, "editor load attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", loadErr == nil))

		if loadErr == nil {
			c.result = result

			if c.path == "" {
				return nil
			}

			return os.WriteFile(c.path, data, 0o644)
		}

		fmt.Fprintf(c.stderr, "\n%s\n", loadErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

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

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "n", "no":
		return false
	}

	return true
}

// runEditor opens $EDITOR (or vi) on path and returns the edited content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	// EDITOR may carry arguments, e.g. "code --wait".
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
