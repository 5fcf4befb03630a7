package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/jarlaunch/internal/config"
	"github.com/kingrea/jarlaunch/internal/logging"
	"github.com/kingrea/jarlaunch/internal/modes"
	"github.com/kingrea/jarlaunch/internal/runner"
	"github.com/kingrea/jarlaunch/internal/runner/runnertest"
)

func newTestApp(t *testing.T) (*app, *runnertest.Recorder, *bytes.Buffer, string) {
	t.Helper()
	home := t.TempDir()
	rec := runnertest.NewRecorder()
	out := &bytes.Buffer{}
	a := &app{
		stdout:  out,
		stderr:  &bytes.Buffer{},
		runner:  rec,
		baseDir: func() (string, error) { return home, nil },
	}
	return a, rec, out, home
}

func TestExecuteRunsScriptWithSelectedMode(t *testing.T) {
	a, rec, out, home := newTestApp(t)
	target := t.TempDir()

	code := execute(context.Background(), a, []string{"--mode", "direct", "--no-pause", "--python", "py", target})

	assert.Equal(t, 0, code)
	calls := rec.CallsTo("py")
	require.Len(t, calls, 2, "import probe then jarpy.py")
	assert.Equal(t, []string{"-c", "import requests"}, calls[0].Args)
	assert.Equal(t, []string{filepath.Join(home, "jarpy.py"), target, "--mode", "direct"}, calls[1].Args)
	assert.Contains(t, out.String(), "Processing complete.")
	assert.FileExists(t, filepath.Join(home, config.StateDirName, "config.yaml"))
	assert.FileExists(t, filepath.Join(home, config.StateDirName, "logs", logging.FileName))
}

func TestExecuteCombinedFromConfigDefault(t *testing.T) {
	a, rec, _, home := newTestApp(t)
	require.NoError(t, config.InitStateDir(home))
	body := "version: 1\npython:\n  executable: py\ndefaults:\n  mode: combined-context\n  pause: false\njava:\n  check: false\nscript:\n  archive_size: 4\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, config.StateDirName, "config.yaml"), []byte(body), 0o644))
	target := t.TempDir()

	code := execute(context.Background(), a, []string{target})

	assert.Equal(t, 0, code)
	calls := rec.CallsTo("py")
	require.Len(t, calls, 2)
	assert.Equal(t, []string{filepath.Join(home, "jarpy.py"), target, "--combine", "--mode", "context", "--size", "4"}, calls[1].Args)
	assert.Empty(t, rec.CallsTo("java"))
}

func TestExecuteWithoutFolderAsksForDragAndDrop(t *testing.T) {
	a, rec, out, home := newTestApp(t)

	code := execute(context.Background(), a, []string{"--no-pause", "--python", "py"})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "drag and drop a FOLDER")
	assert.Contains(t, out.String(), "Details were logged to "+filepath.Join(home, config.StateDirName, "logs", logging.FileName))
	assert.Len(t, rec.CallsTo("py"), 1, "only the import probe may run")
}

func TestExecuteDependencyInstallFailure(t *testing.T) {
	a, rec, out, _ := newTestApp(t)
	rec.Script("py",
		runnertest.Reply{Result: runner.Result{ExitCode: 1}},
		runnertest.Reply{Result: runner.Result{ExitCode: 1}},
	)

	code := execute(context.Background(), a, []string{"--no-pause", "--python", "py", t.TempDir()})

	assert.Equal(t, 1, code)
	calls := rec.CallsTo("py")
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"-m", "pip", "install", "requests"}, calls[1].Args)
	assert.Contains(t, out.String(), "pip install requests")
}

func TestExecutePropagatesScriptExitCode(t *testing.T) {
	a, rec, _, _ := newTestApp(t)
	rec.Script("py",
		runnertest.Reply{},
		runnertest.Reply{Result: runner.Result{ExitCode: 7}},
	)

	code := execute(context.Background(), a, []string{"-m", "1", "--no-pause", "--python", "py", t.TempDir()})

	assert.Equal(t, 7, code)
}

func TestExecuteReadsModeFromPipedInput(t *testing.T) {
	a, rec, _, _ := newTestApp(t)
	a.stdin = pipedStdin(t, "x\n3\n\n")
	target := t.TempDir()

	code := execute(context.Background(), a, []string{"--python", "py", target})

	assert.Equal(t, 0, code)
	calls := rec.CallsTo("py")
	require.Len(t, calls, 2)
	assert.Equal(t, []string{target, "--combine", "--mode", "context"}, calls[1].Args[1:])
}

func pipedStdin(t *testing.T, input string) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	_, err = f.WriteString(input)
	require.NoError(t, err)
	_, err = f.Seek(0, 0)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExecuteRememberSavesPromptChoice(t *testing.T) {
	a, rec, _, home := newTestApp(t)
	a.stdin = pipedStdin(t, "2\n\n")

	code := execute(context.Background(), a, []string{"--remember", "--python", "py", t.TempDir()})

	require.Equal(t, 0, code)
	require.Len(t, rec.CallsTo("py"), 2)
	cfg, err := config.Load(home, "")
	require.NoError(t, err)
	m, ok := cfg.DefaultMode()
	require.True(t, ok)
	assert.Equal(t, modes.Direct, m)
}

func TestExecuteWithoutRememberLeavesConfig(t *testing.T) {
	a, _, _, home := newTestApp(t)
	a.stdin = pipedStdin(t, "2\n\n")

	require.Equal(t, 0, execute(context.Background(), a, []string{"--python", "py", t.TempDir()}))

	cfg, err := config.Load(home, "")
	require.NoError(t, err)
	_, ok := cfg.DefaultMode()
	assert.False(t, ok)
}

func TestExecuteExplicitConfigSkipsDefaultFile(t *testing.T) {
	a, rec, _, home := newTestApp(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\npython:\n  executable: py\nscript:\n  workdir: out\n"), 0o644))

	code := execute(context.Background(), a, []string{"--config", path, "--mode", "context", "--no-pause", t.TempDir()})

	assert.Equal(t, 0, code)
	assert.NoFileExists(t, filepath.Join(home, config.StateDirName, "config.yaml"))
	assert.FileExists(t, filepath.Join(home, config.StateDirName, "logs", logging.FileName))
	calls := rec.CallsTo("py")
	require.Len(t, calls, 2)
	assert.Equal(t, filepath.Join(home, "out"), calls[1].Dir)
}

func TestExecuteRejectsUnknownModeFlag(t *testing.T) {
	a, rec, out, _ := newTestApp(t)

	code := execute(context.Background(), a, []string{"--mode", "archive", "--no-pause", t.TempDir()})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "unknown mode")
	assert.Empty(t, rec.Calls())
}

func TestExecuteRejectsBrokenConfig(t *testing.T) {
	a, rec, out, home := newTestApp(t)
	path := filepath.Join(home, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o644))

	code := execute(context.Background(), a, []string{"--config", path, "--no-pause", t.TempDir()})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "log.level")
	assert.Empty(t, rec.Calls())
}

func TestVersionCmd(t *testing.T) {
	original := version
	version = "test-1.2.3"
	defer func() { version = original }()

	a, rec, out, _ := newTestApp(t)
	code := execute(context.Background(), a, []string{"version"})

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "jarlaunch version test-1.2.3")
	assert.Empty(t, rec.Calls())
}

func TestUnknownFlagReturnsUsageError(t *testing.T) {
	a, _, _, _ := newTestApp(t)
	assert.Equal(t, 2, execute(context.Background(), a, []string{"--bogus"}))
}
