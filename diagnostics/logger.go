// Package diagnostics provides the leveled, component-scoped logger used
// throughout the routing engine. The engine opens no files and spawns no
// background writers of its own. By default it logs to stderr, and a
// collaborator embedding the engine in a service can redirect the default
// logger's output with SetOutput.
package diagnostics

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String renders the level the way it appears in a log line.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string (case-insensitive) to a Level, defaulting to
// Info for anything unrecognized.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a structured, component-scoped logger.
type Logger struct {
	component string
}

var (
	sharedMu  sync.Mutex
	sharedOut = log.New(os.Stderr, "", 0)
	sharedLvl = LevelInfo
)

// SetOutput redirects every Logger's destination. Intended for a hosting
// collaborator (service, CLI) to splice engine diagnostics into its own
// log sink; the engine itself never calls this.
func SetOutput(w io.Writer) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	sharedOut = log.New(w, "", 0)
}

// SetLevel changes the minimum level emitted by every Logger.
func SetLevel(level Level) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	sharedLvl = level
}

// WithComponent returns a logger that tags every line with component.
func WithComponent(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) log(level Level, format string, args ...any) {
	sharedMu.Lock()
	out := sharedOut
	threshold := sharedLvl
	sharedMu.Unlock()

	if level < threshold {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.component != "" {
		out.Printf("%s [%s] %s", level, l.component, msg)
		return
	}
	out.Printf("%s %s", level, msg)
}

// Debug logs a debug-level message.
func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }

// Info logs an info-level message.
func (l *Logger) Info(format string, args ...any) { l.log(LevelInfo, format, args...) }

// Warn logs a warn-level message.
func (l *Logger) Warn(format string, args ...any) { l.log(LevelWarn, format, args...) }

// Error logs an error-level message.
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }
