// Package logger is a small leveled logger. mull writes its logs to a
// file so nothing ever interleaves with the TUI's output. A nil
// *Logger discards everything, so components can log unconditionally.
package logger

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Level controls verbosity.
type Level int

const (
	// LevelOff disables all output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose additionally enables debug output.
	LevelVerbose
)

// Logger is a leveled logger, safe for concurrent use.
type Logger struct {
	mu    sync.Mutex
	level Level
	out   *log.Logger
}

// New creates a logger at the given level writing to w. A nil writer
// yields a logger that discards everything.
func New(level Level, w io.Writer) *Logger {
	if w == nil {
		return nil
	}
	return &Logger{level: level, out: log.New(w, "", log.Ltime)}
}

func (l *Logger) emit(min Level, tag, format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level < min {
		return
	}
	l.out.Print(tag + " " + fmt.Sprintf(format, args...))
}

// Debug logs at debug level; only visible in verbose mode.
func (l *Logger) Debug(format string, args ...any) { l.emit(LevelVerbose, "[DBG]", format, args...) }

// Info logs at info level.
func (l *Logger) Info(format string, args ...any) { l.emit(LevelNormal, "[INF]", format, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...any) { l.emit(LevelNormal, "[WRN]", format, args...) }

// Error logs at error level.
func (l *Logger) Error(format string, args ...any) { l.emit(LevelNormal, "[ERR]", format, args...) }
