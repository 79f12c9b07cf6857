// Package logger provides leveled logging for the epq CLI.
// Messages at or above the configured level are written to stderr as
// "[LEVEL] message" lines. The --verbose flag lowers the level to debug.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

var (
	mu     sync.RWMutex
	level            = LevelInfo
	output io.Writer = os.Stderr
)

// ParseLevel maps a config value to a Level. Unknown values are an error.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// SetLevel sets the minimum level that is written.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// GetLevel returns the current minimum level.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// SetVerbose switches between debug and info level.
func SetVerbose(v bool) {
	if v {
		SetLevel(LevelDebug)
		return
	}
	SetLevel(LevelInfo)
}

// IsVerbose returns true if debug messages are written.
func IsVerbose() bool {
	return GetLevel() == LevelDebug
}

// SetOutput sets the output writer. Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(l Level, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if l < level {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug prints a message if debug level is enabled.
func Debug(format string, args ...any) {
	logf(LevelDebug, "[DEBUG] ", format, args...)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	logf(LevelInfo, "[INFO] ", format, args...)
}

// Warn prints a warning.
func Warn(format string, args ...any) {
	logf(LevelWarn, "[WARN] ", format, args...)
}

// Error prints an error. Errors are always written.
func Error(format string, args ...any) {
	logf(LevelError, "[ERROR] ", format, args...)
}

// Section prints a section header at debug level.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if level == LevelDebug {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
