package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/kingrea/jarlaunch/internal/modes"
)

// Prompter is the interactive surface the launcher needs.
type Prompter interface {
	// PickMode blocks until one of the three modes is chosen.
	PickMode(ctx context.Context, folder string) (modes.Mode, error)
	// Pause blocks until the user acknowledges message.
	Pause(ctx context.Context, message string) error
}

// NewPrompter returns a Terminal prompter when in is a terminal and a
// Lines prompter otherwise (piped input, CI, tests).
func NewPrompter(in *os.File, out io.Writer) Prompter {
	if in == nil {
		return NewLines(nil, out)
	}
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return &Terminal{In: in, Out: out}
	}
	return NewLines(in, out)
}

// Terminal drives the bubbletea models against a real console.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

func (t *Terminal) options(ctx context.Context) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.In != nil {
		opts = append(opts, tea.WithInput(t.In))
	}
	if t.Out != nil {
		opts = append(opts, tea.WithOutput(t.Out))
	}
	return opts
}

// PickMode implements Prompter.
func (t *Terminal) PickMode(ctx context.Context, folder string) (modes.Mode, error) {
	final, err := tea.NewProgram(NewModePicker(folder), t.options(ctx)...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return 0, ErrCancelled
		}
		return 0, fmt.Errorf("tui: mode prompt: %w", err)
	}
	picker, ok := final.(ModePicker)
	if !ok {
		return 0, fmt.Errorf("tui: unexpected model %T", final)
	}
	if m, ok := picker.Selected(); ok {
		return m, nil
	}
	return 0, ErrCancelled
}

// Pause implements Prompter.
func (t *Terminal) Pause(ctx context.Context, message string) error {
	if _, err := tea.NewProgram(NewPausePrompt(message), t.options(ctx)...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("tui: pause: %w", err)
	}
	return nil
}

// Lines reads answers line by line. It accepts the same keys as the
// terminal picker: a line must hold exactly one of 1, 2 or 3.
//
// Reads happen on a background goroutine so a cancelled context releases
// the caller while the read is still blocked. A line read after the caller
// gave up is kept for the next prompt.
type Lines struct {
	in      *bufio.Reader
	out     io.Writer
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewLines wraps r. A nil reader behaves like an empty one.
func NewLines(r io.Reader, out io.Writer) *Lines {
	if r == nil {
		r = strings.NewReader("")
	}
	if out == nil {
		out = io.Discard
	}
	return &Lines{in: bufio.NewReader(r), out: out}
}

func (l *Lines) readLine(ctx context.Context) (string, error) {
	if l.pending == nil {
		ch := make(chan lineResult, 1)
		go func() {
			line, err := l.in.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
		l.pending = ch
	}
	select {
	case res := <-l.pending:
		l.pending = nil
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// PickMode implements Prompter.
func (l *Lines) PickMode(ctx context.Context, folder string) (modes.Mode, error) {
	fmt.Fprintf(l.out, "Folder: %s\n", folder)
	for _, m := range modes.All() {
		fmt.Fprintf(l.out, "  [%s] %s - %s\n", m.Key(), m.Title(), m.Description())
	}
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fmt.Fprint(l.out, "Select [1,2,3]: ")
		line, err := l.readLine(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			fmt.Fprintln(l.out)
			return 0, err
		}
		if m, ok := modes.FromKey(strings.TrimSpace(line)); ok {
			fmt.Fprintln(l.out)
			return m, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, ErrCancelled
			}
			return 0, fmt.Errorf("tui: read selection: %w", err)
		}
	}
}

// Pause implements Prompter. End of input counts as acknowledgment.
func (l *Lines) Pause(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		message = "Press Enter to continue . . ."
	}
	fmt.Fprintln(l.out, message)
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := l.readLine(ctx)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return err
	default:
		return fmt.Errorf("tui: pause: %w", err)
	}
}
