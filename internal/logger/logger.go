// Package logger provides the process-wide structured logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.Mutex
	sugar *zap.SugaredLogger
)

// Init builds the global logger. Production uses the JSON encoder; otherwise a
// console encoder. Output goes to stderr so stdout stays clean for quotes and
// reports. An unparseable level falls back to info.
func Init(level string, production bool) {
	InitTo(level, production, "stderr")
}

// InitTo is Init writing to path instead of stderr. The TUI uses it to keep
// log lines off the alternate screen.
func InitTo(level string, production bool, path string) {
	cfg := zap.NewDevelopmentConfig()
	if production {
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Level = lvl

	base, err := cfg.Build()
	if err != nil {
		base = zap.NewNop()
	}

	mu.Lock()
	sugar = base.Sugar()
	mu.Unlock()
}

// Set replaces the global logger. Tests use it to install a nop or observed core.
func Set(l *zap.SugaredLogger) {
	mu.Lock()
	sugar = l
	mu.Unlock()
}

// Get returns the global logger, initializing a warn-level development
// logger if Init has not been called.
func Get() *zap.SugaredLogger {
	mu.Lock()
	l := sugar
	mu.Unlock()
	if l == nil {
		Init("warn", false)
		mu.Lock()
		l = sugar
		mu.Unlock()
	}
	return l
}

// Sync flushes buffered entries. Call before exit.
func Sync() {
	mu.Lock()
	l := sugar
	mu.Unlock()
	if l != nil {
		_ = l.Sync()
	}
}
