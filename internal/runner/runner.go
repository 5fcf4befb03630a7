// Package runner starts external processes for the launcher. Every process
// the launcher spawns (the Python import probe, pip, java and jarpy.py itself)
// goes through a Runner so the steps can be exercised without a real runtime.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrNotFound means the executable could not be located on PATH.
var ErrNotFound = errors.New("executable not found")

// Command describes a single process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command the way a user would type it.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quote(c.Name))
	for _, arg := range c.Args {
		parts = append(parts, quote(arg))
	}
	return strings.Join(parts, " ")
}

// Inherit wires the command to the launcher's own standard streams.
func (c Command) Inherit() Command {
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c
}

// Quiet discards the command's output.
func (c Command) Quiet() Command {
	c.Stdin = nil
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	return c
}

// Result reports how a started process ended.
type Result struct {
	ExitCode int
}

// Success reports a zero exit status.
func (r Result) Success() bool { return r.ExitCode == 0 }

// Runner starts a process and waits for it. A process that starts and exits
// non-zero is reported through Result; the error is reserved for processes
// that could not be started or waited on, or that were stopped because ctx
// was cancelled.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Exec runs commands with os/exec.
type Exec struct{}

// Run implements Runner.
func (Exec) Run(ctx context.Context, cmd Command) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return Result{ExitCode: -1}, fmt.Errorf("runner: empty command name")
	}
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.Stdin = cmd.Stdin
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr

	err := c.Run()
	if err == nil {
		return Result{ExitCode: 0}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{ExitCode: -1}, fmt.Errorf("runner: %s: %w", cmd.Name, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{ExitCode: exitErr.ExitCode()}, nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return Result{ExitCode: -1}, fmt.Errorf("runner: %s: %w", cmd.Name, ErrNotFound)
	}
	return Result{ExitCode: -1}, fmt.Errorf("runner: start %s: %w", cmd.Name, err)
}

func quote(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\"") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}
