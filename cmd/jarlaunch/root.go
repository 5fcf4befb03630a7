package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/jarlaunch/internal/config"
	"github.com/kingrea/jarlaunch/internal/launcher"
	"github.com/kingrea/jarlaunch/internal/logging"
	"github.com/kingrea/jarlaunch/internal/modes"
	"github.com/kingrea/jarlaunch/internal/preflight"
	"github.com/kingrea/jarlaunch/internal/runner"
	"github.com/kingrea/jarlaunch/internal/tui"
)

var version = "dev"

type rootFlags struct {
	configPath string
	home       string
	mode       string
	python     string
	script     string
	noPause    bool
	remember   bool
	verbose    bool
}

// app carries everything a single launch needs so tests can swap the
// streams, the process runner and the launcher directory.
type app struct {
	flags rootFlags

	stdin  *os.File
	stdout io.Writer
	stderr io.Writer
	runner runner.Runner

	// baseDir returns the directory holding the launcher and jarpy.py.
	baseDir func() (string, error)

	status int
}

func newApp() *app {
	return &app{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		runner:  runner.Exec{},
		baseDir: executableDir,
	}
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jarlaunch <folder>",
		Short: "Decompile every .jar in a folder with jarpy.py",
		Long: `jarlaunch prepares and starts jarpy.py for a folder of .jar files.

It checks that Python can import the library jarpy.py needs (installing it
with pip when missing), asks which processing mode to use, runs jarpy.py with
the matching arguments and waits for a key before closing.

Modes:
  1  Context           separate output per jar, sources merged by file type
  2  Direct            separate output per jar, original structure kept
  3  Combined Context  every jar merged by file type into one output

Drag a folder onto the launcher, or run it with the folder as its only argument.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.status = a.launch(cmd.Context(), args)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&a.flags.configPath, "config", "", "path to a config file (default <launcher dir>/.jarlaunch/config.yaml)")
	f.StringVar(&a.flags.home, "home", "", "directory holding jarpy.py and .jarlaunch (default: the launcher's directory)")
	f.StringVarP(&a.flags.mode, "mode", "m", "", "skip the prompt: context, direct or combined-context")
	f.StringVar(&a.flags.python, "python", "", "python executable to use")
	f.StringVar(&a.flags.script, "script", "", "path to jarpy.py")
	f.BoolVar(&a.flags.noPause, "no-pause", false, "do not wait for a key before exiting")
	f.BoolVar(&a.flags.remember, "remember", false, "save the chosen mode as the default for later launches")
	f.BoolVarP(&a.flags.verbose, "verbose", "v", false, "print debug logs to stderr")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("jarlaunch version %s\n", version)
		},
	}
}

// execute runs the root command and returns the process exit status.
func execute(ctx context.Context, a *app, args []string) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 2
	}
	return a.status
}

func (a *app) launch(ctx context.Context, args []string) int {
	styles := tui.DefaultStyles()
	prompter := tui.NewPrompter(a.stdin, a.stdout)
	fmt.Fprintln(a.stdout, styles.Banner("jarlaunch · JAR decompiler launcher"))

	cfg, err := a.loadConfig()
	if err != nil {
		fmt.Fprintln(a.stdout, styles.Error.Render("ERROR: "+err.Error()))
		if !a.flags.noPause {
			_ = prompter.Pause(ctx, "")
		}
		return 1
	}

	var console io.Writer
	if a.flags.verbose {
		console = a.stderr
	}
	logger, err := logging.New(cfg.LogsDir(), logging.Options{Level: cfg.File.Log.Level, Console: console})
	if err != nil {
		fmt.Fprintln(a.stderr, styles.Warn.Render("WARNING: file logging disabled: "+err.Error()))
		logger = logging.Nop()
	}
	defer logger.Close()
	logger.Debug("config loaded",
		zap.String("path", cfg.Path),
		zap.String("python", cfg.PythonExecutable()),
		zap.String("script", cfg.ScriptPath()),
	)

	opts, err := a.options(cfg)
	if err != nil {
		fmt.Fprintln(a.stdout, styles.Error.Render("ERROR: "+err.Error()))
		logger.Error("invalid flags", zap.Error(err))
		if !opts.NoPause {
			_ = prompter.Pause(ctx, "")
		}
		return 1
	}

	checker := preflight.New(a.runner, opts.Python, opts.Module)
	checker.Logger = logger.Logger
	checker.InstallOutput = a.stdout

	l := &launcher.Launcher{
		Deps:     checker,
		Prompter: prompter,
		Runner:   a.runner,
		Logger:   logger.Logger,
		Out:      a.stdout,
		Styles:   &styles,
		Options:  opts,
		LogFile:  logger.Path,
		RunID:    logger.RunID,
	}
	outcome := l.Run(ctx, args)
	if a.flags.remember && outcome.Mode.Valid() {
		if err := cfg.SetDefaultMode(outcome.Mode.Label()); err != nil {
			logger.Warn("remember mode", zap.Error(err))
			fmt.Fprintln(a.stderr, styles.Warn.Render("WARNING: could not save the default mode: "+err.Error()))
		} else {
			logger.Info("default mode saved", zap.Stringer("mode", outcome.Mode), zap.String("path", cfg.Path))
		}
	}
	logger.Info("launch finished",
		zap.Stringer("state", outcome.State),
		zap.Int("status", outcome.StatusCode()),
	)
	return outcome.StatusCode()
}

func (a *app) loadConfig() (*config.Config, error) {
	base := strings.TrimSpace(a.flags.home)
	if base == "" {
		dir, err := a.baseDir()
		if err != nil {
			return nil, fmt.Errorf("locate launcher directory: %w", err)
		}
		base = dir
	}
	// An explicit --config leaves the launcher directory untouched; the logs
	// directory is created on demand by the logger.
	if strings.TrimSpace(a.flags.configPath) == "" {
		if err := config.InitStateDir(base); err != nil {
			fmt.Fprintf(a.stderr, "warning: %v\n", err)
		}
	}
	return config.Load(base, a.flags.configPath)
}

// options merges flags over the loaded config.
func (a *app) options(cfg *config.Config) (launcher.Options, error) {
	opts := launcher.Options{
		Python:  cfg.PythonExecutable(),
		Module:  cfg.Module(),
		Script:  cfg.ScriptPath(),
		Dir:     cfg.WorkDir(),
		Extra:   cfg.ExtraArgs(),
		NoPause: a.flags.noPause || !cfg.PauseEnabled(),
	}
	if m, ok := cfg.DefaultMode(); ok {
		opts.Preselect = m
	}
	if cfg.File.Java.Check {
		opts.Java = cfg.File.Java.Executable
	}
	if p := strings.TrimSpace(a.flags.python); p != "" {
		opts.Python = p
	}
	if s := strings.TrimSpace(a.flags.script); s != "" {
		abs, err := filepath.Abs(s)
		if err != nil {
			return opts, fmt.Errorf("resolve --script: %w", err)
		}
		opts.Script = abs
	}
	if strings.TrimSpace(a.flags.mode) != "" {
		m, err := modes.Parse(a.flags.mode)
		if err != nil {
			return opts, err
		}
		opts.Preselect = m
	}
	return opts, nil
}
