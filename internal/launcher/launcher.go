// Package launcher runs one launch of jarpy.py from start to finish:
//
//	Start → DependencyCheck → {Abort | InputValidate → {Abort | ModePrompt → Invoke → Finish}}
//
// All state lives in the Launcher value and the Outcome it returns; nothing
// survives between runs.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/kingrea/jarlaunch/internal/modes"
	"github.com/kingrea/jarlaunch/internal/preflight"
	"github.com/kingrea/jarlaunch/internal/runner"
	"github.com/kingrea/jarlaunch/internal/tui"
)

var (
	// ErrDependencyMissing means the Python module was absent and could not be installed.
	ErrDependencyMissing = preflight.ErrDependencyMissing
	// ErrInvalidInvocation means the launcher was not given exactly one argument.
	ErrInvalidInvocation = errors.New("invalid invocation")
	// ErrInvalidTarget means the argument is not an existing directory.
	ErrInvalidTarget = errors.New("invalid target")
)

// jarpy.py shares the console with the launcher; unbuffered output keeps
// its progress lines in order with ours.
var scriptEnv = []string{"PYTHONUNBUFFERED=1"}

// State names a step of the launch.
type State int

const (
	StateStart State = iota
	StateDependencyCheck
	StateInputValidate
	StateModePrompt
	StateInvoke
	StateFinish
	StateAbort
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateDependencyCheck:
		return "dependency-check"
	case StateInputValidate:
		return "input-validate"
	case StateModePrompt:
		return "mode-prompt"
	case StateInvoke:
		return "invoke"
	case StateFinish:
		return "finish"
	case StateAbort:
		return "abort"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Dependencies is the subset of preflight.Checker the launcher calls.
type Dependencies interface {
	Ensure(ctx context.Context) (preflight.Result, error)
	ProbeJava(ctx context.Context, java string) error
}

// Options configure a Launcher.
type Options struct {
	Python string
	Module string
	Script string
	// Dir is the working directory for jarpy.py. Empty means the launcher's own.
	Dir string
	// Preselect skips the prompt when valid.
	Preselect modes.Mode
	// Extra flags appended after the mode fragment.
	Extra []string
	// NoPause skips every acknowledgment prompt.
	NoPause bool
	// Java, when non-empty, is probed before the prompt; failure only warns.
	Java string
}

// Launcher wires the steps together.
type Launcher struct {
	Deps     Dependencies
	Prompter tui.Prompter
	Runner   runner.Runner
	Logger   *zap.Logger
	Out      io.Writer
	Styles   *tui.Styles
	Options  Options

	// LogFile and RunID, when set, are printed on abort so the matching
	// log entries can be found after the window closes.
	LogFile string
	RunID   string

	// Stat is os.Stat unless a test replaces it.
	Stat func(string) (os.FileInfo, error)
}

// Outcome describes how a launch ended.
type Outcome struct {
	State    State
	Folder   string
	Mode     modes.Mode
	Args     []string
	ExitCode int
	Err      error
	// Installed is true when the dependency had to be installed.
	Installed bool
}

// Failed reports whether the launcher aborted before running jarpy.py.
func (o Outcome) Failed() bool { return o.State == StateAbort }

// StatusCode maps the outcome to the launcher's process exit status:
// 1 for launcher failures and for a jarpy.py killed by a signal, otherwise
// jarpy.py's own exit code.
func (o Outcome) StatusCode() int {
	if o.Failed() || o.ExitCode < 0 {
		return 1
	}
	return o.ExitCode
}

func (l *Launcher) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

func (l *Launcher) styles() tui.Styles {
	if l.Styles == nil {
		return tui.DefaultStyles()
	}
	return *l.Styles
}

func (l *Launcher) out() io.Writer {
	if l.Out == nil {
		return io.Discard
	}
	return l.Out
}

// Run performs one launch with the positional args the launcher received.
func (l *Launcher) Run(ctx context.Context, args []string) Outcome {
	log := l.logger()
	st := l.styles()
	outcome := Outcome{State: StateStart}
	log.Info("launch started", zap.Strings("args", args))

	outcome.State = StateDependencyCheck
	res, err := l.Deps.Ensure(ctx)
	if err != nil {
		fmt.Fprintln(l.out(), st.Error.Render("ERROR: A required Python library is missing and could not be installed."))
		fmt.Fprintf(l.out(), "Please install it manually: %s -m pip install %s\n", l.pythonName(), l.moduleName())
		fmt.Fprintf(l.out(), "Details: %v\n", err)
		if !errors.Is(err, ErrDependencyMissing) {
			err = fmt.Errorf("%w: %w", ErrDependencyMissing, err)
		}
		return l.abort(ctx, outcome, err)
	}
	outcome.Installed = res.Installed
	if res.Installed {
		fmt.Fprintln(l.out(), st.Success.Render("Required Python library installed."))
	}

	outcome.State = StateInputValidate
	folder, err := l.validateInput(args)
	if err != nil {
		fmt.Fprintln(l.out(), st.Error.Render("ERROR: "+userMessage(err)))
		return l.abort(ctx, outcome, err)
	}
	outcome.Folder = folder

	if java := strings.TrimSpace(l.Options.Java); java != "" {
		if err := l.Deps.ProbeJava(ctx, java); err != nil {
			log.Warn("java probe failed", zap.Error(err))
			fmt.Fprintln(l.out(), st.Warn.Render("WARNING: Java was not found on PATH; the decompiler will not run without it."))
		}
	}

	outcome.State = StateModePrompt
	mode, err := l.promptMode(ctx, folder)
	if err != nil {
		fmt.Fprintln(l.out(), st.Warn.Render("No mode selected."))
		return l.abort(ctx, outcome, err)
	}
	outcome.Mode = mode
	log.Info("mode selected", zap.Stringer("mode", mode))

	outcome.State = StateInvoke
	outcome.Args = modes.BuildArgs(folder, mode, l.Options.Extra...)
	code, err := l.invoke(ctx, outcome.Args)
	if err != nil {
		fmt.Fprintln(l.out(), st.Error.Render("ERROR: could not start jarpy.py: "+err.Error()))
		return l.abort(ctx, outcome, err)
	}
	outcome.ExitCode = code

	outcome.State = StateFinish
	l.finish(ctx, outcome)
	return outcome
}

func (l *Launcher) validateInput(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: no folder given", ErrInvalidInvocation)
	}
	if len(args) > 1 {
		return "", fmt.Errorf("%w: expected one folder, got %d arguments", ErrInvalidInvocation, len(args))
	}
	folder := args[0]
	if strings.TrimSpace(folder) == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidTarget)
	}
	stat := l.Stat
	if stat == nil {
		stat = os.Stat
	}
	info, err := stat(folder)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidTarget, folder, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidTarget, folder)
	}
	return folder, nil
}

func (l *Launcher) promptMode(ctx context.Context, folder string) (modes.Mode, error) {
	if l.Options.Preselect.Valid() {
		fmt.Fprintf(l.out(), "Mode: %s\n", l.Options.Preselect.Title())
		return l.Options.Preselect, nil
	}
	return l.Prompter.PickMode(ctx, folder)
}

func (l *Launcher) invoke(ctx context.Context, args []string) (int, error) {
	cmd := runner.Command{
		Name: l.pythonName(),
		Args: append([]string{l.scriptPath()}, args...),
		Dir:  l.Options.Dir,
		Env:  scriptEnv,
	}.Inherit()
	log := l.logger().With(zap.String("command", cmd.String()))
	log.Info("starting jarpy")
	fmt.Fprintf(l.out(), "\nRunning: %s\n\n", cmd.String())
	res, err := l.Runner.Run(ctx, cmd)
	if err != nil {
		log.Error("jarpy did not start", zap.Error(err))
		return -1, err
	}
	log.Info("jarpy exited", zap.Int("exit_code", res.ExitCode))
	return res.ExitCode, nil
}

func (l *Launcher) finish(ctx context.Context, o Outcome) {
	st := l.styles()
	fmt.Fprintln(l.out())
	if o.ExitCode == 0 {
		fmt.Fprintln(l.out(), st.Success.Render("Processing complete."))
	} else {
		fmt.Fprintln(l.out(), st.Warn.Render(fmt.Sprintf("Processing finished with exit code %d.", o.ExitCode)))
	}
	l.pause(ctx)
}

func (l *Launcher) abort(ctx context.Context, o Outcome, err error) Outcome {
	l.logger().Error("launch aborted", zap.Stringer("state", o.State), zap.Error(err))
	o.State = StateAbort
	o.Err = err
	o.ExitCode = 1
	if l.LogFile != "" {
		fmt.Fprintf(l.out(), "Details were logged to %s (run %s).\n", l.LogFile, l.RunID)
	}
	l.pause(ctx)
	return o
}

func (l *Launcher) pause(ctx context.Context) {
	if l.Options.NoPause || l.Prompter == nil {
		return
	}
	if err := l.Prompter.Pause(ctx, ""); err != nil {
		l.logger().Warn("pause failed", zap.Error(err))
	}
}

func (l *Launcher) scriptPath() string {
	if s := strings.TrimSpace(l.Options.Script); s != "" {
		return s
	}
	return "jarpy.py"
}

func (l *Launcher) moduleName() string {
	if m := strings.TrimSpace(l.Options.Module); m != "" {
		return m
	}
	return "requests"
}

func (l *Launcher) pythonName() string {
	if p := strings.TrimSpace(l.Options.Python); p != "" {
		return p
	}
	return "python"
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInvocation):
		return "Please drag and drop a FOLDER onto this launcher."
	case errors.Is(err, ErrInvalidTarget):
		return fmt.Sprintf("The provided path is not a valid folder. (%v)", err)
	default:
		return err.Error()
	}
}
