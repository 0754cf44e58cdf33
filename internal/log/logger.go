// Package log provides logging to both console and a log file.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Logger writes output to both console and a log file. Services receive a
// *Logger explicitly rather than going through package-level state.
type Logger struct {
	file      *os.File
	writer    io.Writer
	errWriter io.Writer
}

// New creates a logger that appends to strainsync.log in logDir and mirrors
// output to stdout.
func New(logDir string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "strainsync.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &Logger{
		file:      file,
		writer:    io.MultiWriter(os.Stdout, file),
		errWriter: io.MultiWriter(os.Stderr, file),
	}, nil
}

// Discard returns a logger that swallows everything. Used by tests and as a
// safe default when a caller has no destination for output.
func Discard() *Logger {
	return &Logger{writer: io.Discard, errWriter: io.Discard}
}

// Printf writes a formatted message to console and log file.
func (l *Logger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, format, args...)
}

// Println writes a message to console and log file with a newline.
func (l *Logger) Println(args ...interface{}) {
	fmt.Fprint(l.writer, fmt.Sprintln(args...))
}

// Errorf writes a timestamped error message to stderr and the log file.
func (l *Logger) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.errWriter, "[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), msg)
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
