package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(level log.Level, writers ...io.Writer) *Logger {
	return NewWithLevel(io.MultiWriter(writers...), level)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel maps a config level name to a log level, defaulting to info
func ParseLevel(name string) (log.Level, error) {
	if name == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(name)
}

// BuildStarted logs the start of a build
func (l *Logger) BuildStarted(graphPath, outputDir string) {
	l.Info("build started",
		"graph", graphPath,
		"output", outputDir)
}

// BuildCompleted logs the completion of a build
func (l *Logger) BuildCompleted(pages, written, errors int, duration time.Duration) {
	l.Info("build completed",
		"pages", pages,
		"pages_written", written,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// GraphLoaded logs the size of a loaded export
func (l *Logger) GraphLoaded(path string, pages, blocks int) {
	l.Info("graph loaded",
		"path", path,
		"pages", pages,
		"blocks", blocks)
}

// PageWritten logs a page written to disk
func (l *Logger) PageWritten(title, path string) {
	l.Info("page written",
		"title", title,
		"path", path)
}

// PageUnchanged logs a page whose output did not change
func (l *Logger) PageUnchanged(title, path string) {
	l.Debug("page unchanged",
		"title", title,
		"path", path)
}

// PageExcluded logs a page left out by the tag filters
func (l *Logger) PageExcluded(title, reason string) {
	l.Info("page excluded",
		"title", title,
		"reason", reason)
}

// PagePruned logs a stale page removed from the output
func (l *Logger) PagePruned(path string) {
	l.Info("page pruned",
		"path", path)
}

// PageError logs an error for a specific page
func (l *Logger) PageError(title string, err error) {
	l.Error("page error",
		"title", title,
		"error", err)
}

// BlockRepaired logs a block whose text had to be repaired before parsing
func (l *Logger) BlockRepaired(uid string, err error) {
	l.Warn("block text repaired",
		"uid", uid,
		"error", err)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path, graphPath, outputDir string) {
	l.Debug("config loaded",
		"path", path,
		"graph", graphPath,
		"output", outputDir)
}
