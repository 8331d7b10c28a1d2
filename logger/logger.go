// Package logger is a thin wrapper over the standard logger. Output goes to
// stderr and, when a file is configured, to a rotating log file.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	std     = log.New(os.Stderr, "", log.Ldate|log.Ltime)
	verbose atomic.Bool
)

// Options controls where log output goes.
type Options struct {
	File       string
	Verbose    bool
	MaxSizeMB  int
	MaxBackups int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup configures the package logger. The returned closer releases the log
// file, if any.
func Setup(opts Options) (io.Closer, error) {
	verbose.Store(opts.Verbose)
	if opts.File == "" {
		std.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	lj := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSize, // MB
		MaxBackups: opts.MaxBackups,
		MaxAge:     28, // days
		Compress:   true,
	}
	std.SetOutput(io.MultiWriter(os.Stderr, lj))
	return lj, nil
}

// SetOutput redirects log output. Used by tests.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// SetVerbose toggles Debug output.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// Std returns the underlying logger for libraries that want a *log.Logger.
func Std() *log.Logger {
	return std
}

func Printf(format string, v ...interface{}) {
	std.Output(2, fmt.Sprintf(format, v...))
}

// Debugf logs only when verbose output is enabled.
func Debugf(format string, v ...interface{}) {
	if !verbose.Load() {
		return
	}
	std.Output(2, "[debug] "+fmt.Sprintf(format, v...))
}
