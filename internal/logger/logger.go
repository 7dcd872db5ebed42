package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogFilePath is the session log, relative to the working directory (project root when run via go run ./cmd/configurator).
const LogFilePath = "logs/session.log"

// maxLines caps the in-memory history shown by the console.
const maxLines = 500

// Logger keeps recent lines in memory for the console and writes every entry as a JSON line
// to the session log.
type Logger struct {
	mu    sync.Mutex
	lines []string
	zl    zerolog.Logger
	out   io.Closer
	now   func() time.Time
}

// New returns a Logger appending to LogFilePath. If the file cannot be opened the logger
// still works in memory.
func New() *Logger {
	dir := filepath.Dir(LogFilePath)
	_ = os.MkdirAll(dir, 0755)
	f, err := os.OpenFile(LogFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return NewWithWriter(io.Discard)
	}
	l := NewWithWriter(f)
	l.out = f
	return l
}

// NewWithWriter returns a Logger writing JSON lines to w.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{
		lines: make([]string, 0),
		zl:    zerolog.New(w).With().Timestamp().Logger(),
		now:   time.Now,
	}
}

// Discard returns a Logger that only keeps lines in memory.
func Discard() *Logger {
	return NewWithWriter(io.Discard)
}

// Log records a console line (terminal input, command output) at info level.
func (l *Logger) Log(line string) {
	l.zl.Info().Str("source", "console").Msg(line)
	l.remember(line)
}

// Info records msg with optional key/value pairs.
func (l *Logger) Info(msg string, kv ...any) {
	l.zl.Info().Fields(kv).Msg(msg)
	l.remember(format("", msg, kv))
}

// Warn records a recoverable problem.
func (l *Logger) Warn(msg string, kv ...any) {
	l.zl.Warn().Fields(kv).Msg(msg)
	l.remember(format("warn: ", msg, kv))
}

// Error records err with msg.
func (l *Logger) Error(err error, msg string, kv ...any) {
	l.zl.Error().Err(err).Fields(kv).Msg(msg)
	l.remember(format("error: ", msg, append(kv, "err", err)))
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.out == nil {
		return nil
	}
	return l.out.Close()
}

func (l *Logger) remember(line string) {
	stamped := "[" + l.now().Format("15:04:05") + "] " + line
	l.mu.Lock()
	l.lines = append(l.lines, stamped)
	if len(l.lines) > maxLines {
		l.lines = append(l.lines[:0], l.lines[len(l.lines)-maxLines:]...)
	}
	l.mu.Unlock()
}

func format(prefix, msg string, kv []any) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	return b.String()
}
