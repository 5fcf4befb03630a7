// internal/config/config.go
//
// This package handles launcher configuration and the .jarlaunch directory.
// The directory lives next to the launcher executable (and jarpy.py), so a
// drag-and-drop launch finds the same settings no matter where the folder came from.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/jarlaunch/internal/modes"
)

const (
	// StateDirName is the directory created beside the launcher.
	StateDirName = ".jarlaunch"

	configFileName  = "config.yaml"
	defaultScript   = "jarpy.py"
	defaultModule   = "requests"
	defaultJava     = "java"
	currentVersion  = 1
	defaultLogLevel = "info"
)

const defaultConfigYAML = `# jarlaunch configuration
version: 1

python:
  # Interpreter used for the import probe, pip and jarpy.py.
  # Empty means "python" on Windows and "python3" elsewhere.
  executable: ""
  # Module jarpy.py needs; installed with pip when the import fails.
  module: requests

script:
  # Relative paths resolve against the launcher's directory.
  path: jarpy.py
  # Working directory for jarpy.py. Empty keeps the directory the launcher
  # was started from; relative paths resolve against the launcher's directory.
  workdir: ""
  # Pass-through options for jarpy.py. 0 keeps the script's own defaults.
  archive_size: 0
  max_context_mb: 0

defaults:
  # Preselect a mode (context, direct, combined-context) to skip the prompt.
  mode: ""
  pause: true

java:
  # Warn before launching when "java -version" fails.
  check: true
  executable: java

log:
  level: info
`

var moduleNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// PythonConfig selects the interpreter and the module it must provide.
type PythonConfig struct {
	Executable string `yaml:"executable"`
	Module     string `yaml:"module"`
}

// ScriptConfig locates jarpy.py and carries its optional pass-through flags.
type ScriptConfig struct {
	Path         string  `yaml:"path"`
	WorkDir      string  `yaml:"workdir"`
	ArchiveSize  int     `yaml:"archive_size"`
	MaxContextMB float64 `yaml:"max_context_mb"`
}

// DefaultsConfig holds choices that skip interaction.
type DefaultsConfig struct {
	Mode  string `yaml:"mode"`
	Pause *bool  `yaml:"pause,omitempty"`
}

// JavaConfig controls the Java probe.
type JavaConfig struct {
	Check      bool   `yaml:"check"`
	Executable string `yaml:"executable"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// FileConfig models .jarlaunch/config.yaml.
type FileConfig struct {
	Version  int            `yaml:"version"`
	Python   PythonConfig   `yaml:"python"`
	Script   ScriptConfig   `yaml:"script"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Java     JavaConfig     `yaml:"java"`
	Log      LogConfig      `yaml:"log"`
}

// Config holds the runtime configuration for one launch.
type Config struct {
	// BaseDir is the directory holding the launcher and jarpy.py.
	BaseDir string

	// StateDir is BaseDir/.jarlaunch.
	StateDir string

	// Path is the config file that was loaded.
	Path string

	File FileConfig
}

// InitStateDir creates the .jarlaunch directory structure under baseDir
// and writes the default config file when none exists.
//
// .jarlaunch/
// ├── config.yaml
// └── logs/
func InitStateDir(baseDir string) error {
	stateDir := filepath.Join(baseDir, StateDirName)
	if err := os.MkdirAll(filepath.Join(stateDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: ensure state dir: %w", err)
	}
	return ensureConfigFile(filepath.Join(stateDir, configFileName))
}

// Load reads baseDir/.jarlaunch/config.yaml, or path when it is non-empty.
func Load(baseDir, path string) (*Config, error) {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("config: resolve base dir: %w", err)
	}
	cfg := &Config{
		BaseDir:  absBase,
		StateDir: filepath.Join(absBase, StateDirName),
		File:     defaultFileConfig(),
	}
	cfg.Path = strings.TrimSpace(path)
	if cfg.Path == "" {
		cfg.Path = filepath.Join(cfg.StateDir, configFileName)
	}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the directory for launcher logs.
func (c *Config) LogsDir() string {
	return filepath.Join(c.StateDir, "logs")
}

// ScriptPath returns the absolute path to jarpy.py.
func (c *Config) ScriptPath() string {
	return c.File.Script.Path
}

// WorkDir returns the working directory for jarpy.py, or "" for the
// launcher's own.
func (c *Config) WorkDir() string {
	return c.File.Script.WorkDir
}

// PythonExecutable returns the interpreter to run.
func (c *Config) PythonExecutable() string {
	return c.File.Python.Executable
}

// Module returns the Python module jarpy.py depends on.
func (c *Config) Module() string {
	return c.File.Python.Module
}

// PauseEnabled reports whether the launcher waits for a key before exiting.
func (c *Config) PauseEnabled() bool {
	if c.File.Defaults.Pause == nil {
		return true
	}
	return *c.File.Defaults.Pause
}

// DefaultMode returns the preselected mode, if any.
func (c *Config) DefaultMode() (modes.Mode, bool) {
	if strings.TrimSpace(c.File.Defaults.Mode) == "" {
		return 0, false
	}
	m, err := modes.Parse(c.File.Defaults.Mode)
	if err != nil {
		return 0, false
	}
	return m, true
}

// ExtraArgs returns the jarpy.py flags appended after the mode fragment.
// It is empty unless the config sets them.
func (c *Config) ExtraArgs() []string {
	var args []string
	if n := c.File.Script.ArchiveSize; n > 0 {
		args = append(args, "--size", strconv.Itoa(n))
	}
	if mb := c.File.Script.MaxContextMB; mb > 0 {
		args = append(args, "--max-size", strconv.FormatFloat(mb, 'f', -1, 64))
	}
	return args
}

// SetDefaultMode updates the preselected mode and persists it. An empty
// label clears the preselection.
func (c *Config) SetDefaultMode(label string) error {
	label = strings.TrimSpace(label)
	if label != "" {
		m, err := modes.Parse(label)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		label = m.Label()
	}
	c.File.Defaults.Mode = label
	return c.Save()
}

// Save writes the config back to disk.
func (c *Config) Save() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.File.applyDefaults()
	if err := c.File.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("config: ensure config dir: %w", err)
	}
	out := c.File
	out.Script.Path = relativeTo(c.BaseDir, out.Script.Path)
	if out.Script.WorkDir != "" {
		out.Script.WorkDir = relativeTo(c.BaseDir, out.Script.WorkDir)
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.Path, data, 0o644); err != nil {
		return fmt.Errorf("config: write config: %w", err)
	}
	return nil
}

func (c *Config) load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.File.applyDefaults()
			c.File.normalize(c.BaseDir)
			return nil
		}
		return fmt.Errorf("config: read %s: %w", c.Path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config: parse %s: %w", c.Path, err)
	}
	fc.applyDefaults()
	fc.normalize(c.BaseDir)
	if err := fc.validate(); err != nil {
		return fmt.Errorf("config: %s: %w", c.Path, err)
	}
	c.File = fc
	return nil
}

func defaultFileConfig() FileConfig {
	pause := true
	return FileConfig{
		Version: currentVersion,
		Python: PythonConfig{
			Executable: defaultPython(),
			Module:     defaultModule,
		},
		Script:   ScriptConfig{Path: defaultScript},
		Defaults: DefaultsConfig{Pause: &pause},
		Java:     JavaConfig{Check: true, Executable: defaultJava},
		Log:      LogConfig{Level: defaultLogLevel},
	}
}

func defaultPython() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

func (fc *FileConfig) applyDefaults() {
	if fc.Version == 0 {
		fc.Version = currentVersion
	}
	if strings.TrimSpace(fc.Python.Executable) == "" {
		fc.Python.Executable = defaultPython()
	}
	if strings.TrimSpace(fc.Python.Module) == "" {
		fc.Python.Module = defaultModule
	}
	if strings.TrimSpace(fc.Script.Path) == "" {
		fc.Script.Path = defaultScript
	}
	if strings.TrimSpace(fc.Java.Executable) == "" {
		fc.Java.Executable = defaultJava
	}
	if strings.TrimSpace(fc.Log.Level) == "" {
		fc.Log.Level = defaultLogLevel
	}
}

func (fc *FileConfig) normalize(base string) {
	fc.Python.Executable = strings.TrimSpace(fc.Python.Executable)
	fc.Python.Module = strings.TrimSpace(fc.Python.Module)
	fc.Script.Path = resolvePath(base, fc.Script.Path)
	fc.Script.WorkDir = resolvePath(base, fc.Script.WorkDir)
	fc.Defaults.Mode = strings.ToLower(strings.TrimSpace(fc.Defaults.Mode))
	fc.Java.Executable = strings.TrimSpace(fc.Java.Executable)
	fc.Log.Level = strings.ToLower(strings.TrimSpace(fc.Log.Level))
}

func (fc *FileConfig) validate() error {
	if fc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if !moduleNamePattern.MatchString(fc.Python.Module) {
		return fmt.Errorf("python.module %q is not a valid module name", fc.Python.Module)
	}
	if fc.Script.ArchiveSize < 0 {
		return fmt.Errorf("script.archive_size must be >= 0")
	}
	if fc.Script.MaxContextMB < 0 {
		return fmt.Errorf("script.max_context_mb must be >= 0")
	}
	if fc.Defaults.Mode != "" {
		if _, err := modes.Parse(fc.Defaults.Mode); err != nil {
			return fmt.Errorf("defaults.mode: %w", err)
		}
	}
	switch fc.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func relativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
