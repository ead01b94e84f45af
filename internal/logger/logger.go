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
	return NewWithLevel(w, log.InfoLevel)
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
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// NoteUpdated logs a published note revision
func (l *Logger) NoteUpdated(revision string, markdownBytes, htmlBytes int, duration time.Duration) {
	l.Info("note updated",
		"revision", revision,
		"markdown_bytes", markdownBytes,
		"html_bytes", htmlBytes,
		"duration", duration.Round(time.Microsecond))
}

// PayloadRejected logs a setup call that left the note unchanged
func (l *Logger) PayloadRejected(key string, err error) {
	l.Warn("payload rejected",
		"key", key,
		"error", err)
}

// PayloadError logs a payload file that could not be read or decoded
func (l *Logger) PayloadError(path string, err error) {
	l.Error("payload error",
		"path", path,
		"error", err)
}

// ExportWritten logs an exported HTML page
func (l *Logger) ExportWritten(path, revision string, size int) {
	l.Info("export written",
		"path", path,
		"revision", revision,
		"bytes", size)
}

// ExportError logs a failed export
func (l *Logger) ExportError(path string, err error) {
	l.Error("export failed",
		"path", path,
		"error", err)
}

// WatchStarted logs the start of a watch loop
func (l *Logger) WatchStarted(path string, interval time.Duration) {
	l.Info("watch started",
		"path", path,
		"interval", interval)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(markdownKey, exportDir string, interval time.Duration) {
	l.Debug("config loaded",
		"markdown_key", markdownKey,
		"export_dir", exportDir,
		"interval", interval)
}

// Skipped logs when a payload file is unchanged
func (l *Logger) Skipped(path, reason string) {
	l.Debug("payload skipped",
		"path", path,
		"reason", reason)
}
