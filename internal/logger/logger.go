// Package logger is a small leveled logger shared by the server and the
// polling surfaces. Safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level controls verbosity.
type Level int

const (
	// LevelOff discards everything.
	LevelOff Level = iota
	// LevelNormal prints info, warn and error lines.
	LevelNormal
	// LevelVerbose adds debug lines.
	LevelVerbose
)

// ParseLevel maps LOG_LEVEL values ("off", "normal", "verbose" and the
// aliases "info", "debug") to a Level. Unknown values yield LevelNormal.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none", "quiet":
		return LevelOff
	case "verbose", "debug":
		return LevelVerbose
	default:
		return LevelNormal
	}
}

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelVerbose:
		return "verbose"
	default:
		return "normal"
	}
}

// Logger writes prefixed lines at or below its level.
type Logger struct {
	mu     sync.RWMutex
	level  Level
	debug  *log.Logger
	info   *log.Logger
	warn   *log.Logger
	errLog *log.Logger
}

// New creates a logger writing to out, or os.Stderr when out is nil.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	flags := log.Ldate | log.Ltime

	return &Logger{
		level:  level,
		debug:  log.New(out, "[DBG] ", flags),
		info:   log.New(out, "[INF] ", flags),
		warn:   log.New(out, "[WRN] ", flags),
		errLog: log.New(out, "[ERR] ", flags),
	}
}

// Discard returns a logger that prints nothing. Handy in tests.
func Discard() *Logger {
	return New(LevelOff, io.Discard)
}

// SetLevel changes the level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the current level.
func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *Logger) output(min Level, dst *log.Logger, format string, args []any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.level >= min {
		_ = dst.Output(3, fmt.Sprintf(format, args...))
	}
}

// Debug logs only in verbose mode.
func (l *Logger) Debug(format string, args ...any) {
	l.output(LevelVerbose, l.debug, format, args)
}

// Info logs at normal level.
func (l *Logger) Info(format string, args ...any) {
	l.output(LevelNormal, l.info, format, args)
}

// Warn logs at normal level.
func (l *Logger) Warn(format string, args ...any) {
	l.output(LevelNormal, l.warn, format, args)
}

// Error logs at normal level.
func (l *Logger) Error(format string, args ...any) {
	l.output(LevelNormal, l.errLog, format, args)
}
