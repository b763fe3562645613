// Package logging sets up the process-wide zap logger used by the suite.
//
// Console output carries INFO and above; a timestamped file under the logs
// directory receives everything from DEBUG up, including the caller. Lines
// read "time - name - LEVEL - message".
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	logFile string
)

// Options configures Init
type Options struct {
	Dir   string // directory for the run log file; empty disables the file sink
	Level string // minimum level for the file sink
}

// Init builds the root logger. Calling it again replaces the previous logger.
func Init(opts Options) (*zap.Logger, error) {
	level := zapcore.DebugLevel
	if opts.Level != "" {
		if err := level.Set(opts.Level); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	consoleEnc := zapcore.EncoderConfig{
		TimeKey:          "time",
		NameKey:          "logger",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " - ",
	}

	consoleLevel := zapcore.InfoLevel
	if level > consoleLevel {
		consoleLevel = level
	}
	cores := []zapcore.Core{
		zapcore.NewCore(lineEncoder{zapcore.NewConsoleEncoder(consoleEnc), false}, zapcore.Lock(os.Stdout), consoleLevel),
	}

	var path string
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log dir: %w", err)
		}
		path = filepath.Join(opts.Dir, fmt.Sprintf("test_run_%s.log", time.Now().Format("20060102_150405")))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}

		cores = append(cores, zapcore.NewCore(lineEncoder{zapcore.NewConsoleEncoder(consoleEnc), true}, zapcore.AddSync(f), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())

	mu.Lock()
	root = logger
	logFile = path
	mu.Unlock()

	return logger, nil
}

// L returns the root logger
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Named returns a child of the root logger. Before Init it is a no-op logger.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// File returns the path of the current run log, or "" when there is none
func File() string {
	mu.RLock()
	defer mu.RUnlock()
	return logFile
}

// Sync flushes buffered log entries
func Sync() {
	_ = L().Sync()
}

// lineEncoder moves the level, and optionally the caller, behind the logger
// name. zap's console encoder always writes the level first.
type lineEncoder struct {
	zapcore.Encoder
	caller bool
}

func (e lineEncoder) Clone() zapcore.Encoder {
	return lineEncoder{e.Encoder.Clone(), e.caller}
}

func (e lineEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	prefix := ent.Level.CapitalString() + " - "
	if e.caller && ent.Caller.Defined {
		prefix += ent.Caller.TrimmedPath() + " - "
	}
	ent.Message = prefix + ent.Message
	return e.Encoder.EncodeEntry(ent, fields)
}
