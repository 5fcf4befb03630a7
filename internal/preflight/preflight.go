// Package preflight verifies the host can run jarpy.py before the launcher
// asks the user anything. The import probe and the pip install are separate
// steps so callers can test and report them independently.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/kingrea/jarlaunch/internal/runner"
)

var (
	// ErrDependencyMissing means the module could not be imported and could not be installed.
	ErrDependencyMissing = errors.New("required python module missing")
	// ErrRuntimeMissing means the Python executable itself is not on PATH.
	ErrRuntimeMissing = errors.New("python runtime not found")
	// ErrInstallFailed means pip ran but did not succeed.
	ErrInstallFailed = errors.New("pip install failed")
	// ErrJavaMissing means `java -version` could not be run successfully.
	ErrJavaMissing = errors.New("java runtime not found")
)

// Checker runs the dependency probes.
type Checker struct {
	Runner runner.Runner
	Python string
	Module string
	Logger *zap.Logger

	// InstallOutput receives pip's output; nil discards it.
	InstallOutput io.Writer
}

// Result describes what Ensure found and did.
type Result struct {
	Present   bool
	Installed bool
}

// New returns a Checker with a no-op logger.
func New(r runner.Runner, python, module string) *Checker {
	return &Checker{Runner: r, Python: python, Module: module, Logger: zap.NewNop()}
}

func (c *Checker) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// CheckDependency tries to import the module in the Python runtime.
func (c *Checker) CheckDependency(ctx context.Context) error {
	cmd := runner.Command{
		Name: c.Python,
		Args: []string{"-c", "import " + c.Module},
	}.Quiet()
	res, err := c.Runner.Run(ctx, cmd)
	if err != nil {
		if errors.Is(err, runner.ErrNotFound) {
			return fmt.Errorf("preflight: %s: %w", c.Python, ErrRuntimeMissing)
		}
		return fmt.Errorf("preflight: import probe: %w", err)
	}
	if !res.Success() {
		return fmt.Errorf("preflight: import %s exited %d: %w", c.Module, res.ExitCode, ErrDependencyMissing)
	}
	return nil
}

// Install runs `python -m pip install <module>`.
func (c *Checker) Install(ctx context.Context) error {
	out := c.InstallOutput
	if out == nil {
		out = io.Discard
	}
	cmd := runner.Command{
		Name:   c.Python,
		Args:   []string{"-m", "pip", "install", c.Module},
		Stdout: out,
		Stderr: out,
	}
	c.logger().Info("installing python module", zap.String("module", c.Module), zap.String("command", cmd.String()))
	res, err := c.Runner.Run(ctx, cmd)
	if err != nil {
		if errors.Is(err, runner.ErrNotFound) {
			return fmt.Errorf("preflight: %s: %w", c.Python, ErrRuntimeMissing)
		}
		return fmt.Errorf("preflight: pip: %w", err)
	}
	if !res.Success() {
		return fmt.Errorf("preflight: pip exited %d: %w", res.ExitCode, ErrInstallFailed)
	}
	return nil
}

// Ensure checks the dependency and installs it when missing. The returned
// error always wraps ErrDependencyMissing when the module is unusable.
func (c *Checker) Ensure(ctx context.Context) (Result, error) {
	log := c.logger().With(zap.String("module", c.Module), zap.String("python", c.Python))
	err := c.CheckDependency(ctx)
	if err == nil {
		log.Info("dependency present")
		return Result{Present: true}, nil
	}
	if errors.Is(err, ErrRuntimeMissing) {
		log.Error("python runtime missing", zap.Error(err))
		return Result{}, fmt.Errorf("%w: %w", ErrDependencyMissing, err)
	}
	log.Warn("dependency missing, attempting install", zap.Error(err))

	if err := c.Install(ctx); err != nil {
		log.Error("install failed", zap.Error(err))
		return Result{}, fmt.Errorf("%w: %w", ErrDependencyMissing, err)
	}
	if err := c.CheckDependency(ctx); err != nil {
		log.Error("module still not importable after install", zap.Error(err))
		if errors.Is(err, ErrDependencyMissing) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %w", ErrDependencyMissing, err)
	}
	log.Info("dependency installed")
	return Result{Present: true, Installed: true}, nil
}

// ProbeJava checks that a Java runtime answers `java -version`. jarpy.py
// needs it for the decompiler; the launcher only warns.
func (c *Checker) ProbeJava(ctx context.Context, java string) error {
	java = strings.TrimSpace(java)
	if java == "" {
		java = "java"
	}
	res, err := c.Runner.Run(ctx, runner.Command{Name: java, Args: []string{"-version"}}.Quiet())
	if err != nil {
		return fmt.Errorf("preflight: %s: %w", java, ErrJavaMissing)
	}
	if !res.Success() {
		return fmt.Errorf("preflight: %s -version exited %d: %w", java, res.ExitCode, ErrJavaMissing)
	}
	return nil
}
