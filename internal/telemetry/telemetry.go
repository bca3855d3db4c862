// Package telemetry records every tool invocation and its outcome to an
// append-only sink. Lines are human-readable, one per event:
//
//	2026-02-11 09:15:02,113 - cadbridge.dispatch - INFO - 🔍 tool called: verify_cad_query
//
// The sink is injected so tests can substitute an in-memory writer; Open tees
// a file sink with stderr for interactive debugging.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// sink serializes writes so concurrent invocations interleave whole lines.
type sink struct {
	mu   sync.Mutex
	out  io.Writer
	file *os.File
}

// Logger writes levelled, timestamped lines to a shared sink.
type Logger struct {
	s    *sink
	name string
	min  Level
}

// New returns a Logger writing to out under the given logger name.
func New(name string, out io.Writer) *Logger {
	if name == "" {
		name = "cadbridge"
	}
	return &Logger{s: &sink{out: out}, name: name}
}

// Open appends to the log file at path and tees every line to stderr.
// Parent directories are created as needed.
func Open(name, path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	l := New(name, io.MultiWriter(f, os.Stderr))
	l.s.file = f
	return l, nil
}

// Named returns a child Logger sharing the same sink with a dotted sub-name.
func (l *Logger) Named(sub string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{s: l.s, name: l.name + "." + sub, min: l.min}
}

// SetMinLevel drops lines below min. The default keeps everything.
func (l *Logger) SetMinLevel(min Level) {
	if l != nil {
		l.min = min
	}
}

// Close releases the file sink, if any.
func (l *Logger) Close() error {
	if l == nil || l.s.file == nil {
		return nil
	}
	return l.s.file.Close()
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(level Level, format string, args ...any) {
	if l == nil || level < l.min {
		return
	}
	line := fmt.Sprintf("%s - %s - %s - %s\n",
		stamp(time.Now()), l.name, level, fmt.Sprintf(format, args...))

	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if _, err := io.WriteString(l.s.out, line); err != nil {
		// Logging must never take the process down with it.
		fmt.Fprintf(os.Stderr, "telemetry: write: %v\n", err)
	}
}

// stamp formats t with millisecond precision, comma-separated to match the
// established log-file convention.
func stamp(t time.Time) string {
	return fmt.Sprintf("%s,%03d", t.Format("2006-01-02 15:04:05"), t.Nanosecond()/1e6)
}
