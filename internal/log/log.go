// Package log provides the leveled logger shared by every phase of the
// inference pipeline, in place of the ad hoc fmt.Printf/Fprintf calls the
// teacher CLI scattered through its adapters.
package log

import (
	"io"
	"log"
	"os"
)

// Logger writes leveled, prefixed lines to a single underlying writer.
type Logger struct {
	out *log.Logger
}

// New builds a Logger writing to w. Pass os.Stderr for CLI use.
func New(w io.Writer) *Logger {
	return &Logger{out: log.New(w, "", log.LstdFlags)}
}

// Default is the process-wide logger, writing to stderr.
var Default = New(os.Stderr)

func (l *Logger) Info(msg string, args ...any) {
	l.out.Printf("[INFO] "+msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.out.Printf("[WARN] "+msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.out.Printf("[ERROR] "+msg, args...)
}

func Info(msg string, args ...any)  { Default.Info(msg, args...) }
func Warn(msg string, args ...any)  { Default.Warn(msg, args...) }
func Error(msg string, args ...any) { Default.Error(msg, args...) }
