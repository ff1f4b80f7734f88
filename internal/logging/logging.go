// Package logging provides the leveled logger used by the command line.
//
// Messages go to a single writer (stderr by default) prefixed with a styled
// level tag. Colour is only emitted when the writer is a terminal.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Level represents the severity of a log message
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
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// ParseLevel accepts debug, info, warn/warning and error, case-insensitively.
// An empty string selects info.
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
		return LevelInfo, fmt.Errorf("invalid log level: %q. Please choose from 'debug', 'info', 'warn', or 'error'.", s)
	}
}

type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	prefix map[Level]string
}

// New returns a logger writing to out at the given level.
func New(out io.Writer, level Level) *Logger {
	r := lipgloss.NewRenderer(out)
	if !IsTerminal(out) {
		r.SetColorProfile(termenv.Ascii)
	}

	tag := func(color, label string) string {
		return r.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(label)
	}

	return &Logger{
		out:   out,
		level: level,
		prefix: map[Level]string{
			LevelDebug: tag("8", "[DEBUG]"),
			LevelInfo:  tag("12", "[INFO]"),
			LevelWarn:  tag("11", "[WARN]"),
			LevelError: tag("9", "[ERROR]"),
		},
	}
}

// Default logs to stderr at info level.
func Default() *Logger {
	return New(os.Stderr, LevelInfo)
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (l *Logger) SetLevel(level Level) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *Logger) Level() Level {
	if l == nil {
		return LevelError
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }

func (l *Logger) Infof(format string, args ...any) { l.logf(LevelInfo, format, args...) }

func (l *Logger) Warnf(format string, args ...any) { l.logf(LevelWarn, format, args...) }

func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(level Level, format string, args ...any) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}

	msg := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintf(l.out, "%s %s\n", l.prefix[level], msg)
}
