package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file written inside the logs directory.
const FileName = "jarlaunch.log"

// Logger appends JSON lines to .jarlaunch/logs/jarlaunch.log so users can
// inspect a failed launch after the console window has closed.
type Logger struct {
	*zap.Logger
	file *os.File

	// Path is the log file; empty for Nop.
	Path string
	// RunID tags every entry of this launch.
	RunID string
}

// Options tune the logger.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Console, when set, receives human-readable debug output as well.
	Console io.Writer
}

// New creates (or reuses) the log file under logsDir.
func New(logsDir string, opts Options) (*Logger, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logsDir, FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level),
	}
	if opts.Console != nil {
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleCfg),
			zapcore.AddSync(opts.Console),
			zapcore.DebugLevel,
		))
	}

	runID := uuid.New().String()
	logger := zap.New(zapcore.NewTee(cores...)).With(zap.String("run_id", runID))
	return &Logger{Logger: logger, file: f, Path: path, RunID: runID}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Close flushes and releases the file handle.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	if l.Logger != nil {
		_ = l.Logger.Sync()
	}
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
