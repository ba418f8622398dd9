package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Level represents log severity.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "warn":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

func levelString(l Level) string {
	switch l {
	case Debug:
		return "debug"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type Logger struct {
	min  Level
	json bool
	out  io.Writer
}

// New returns a stderr logger. Diagnostics never share stdout with
// command output.
func New(level string, jsonOut bool) *Logger {
	return NewWriter(level, jsonOut, os.Stderr)
}

// NewWriter routes log lines to an explicit writer.
func NewWriter(level string, jsonOut bool, out io.Writer) *Logger {
	return &Logger{min: ParseLevel(level), json: jsonOut, out: out}
}

// NewFile appends to a log file, creating its directory as needed. The
// dashboard uses this so diagnostics never touch the terminal it owns.
func NewFile(level string, jsonOut bool, path string) (*Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return NewWriter(level, jsonOut, f), f.Close, nil
}

func (l *Logger) Enabled(v Level) bool { return l != nil && v >= l.min }

func (l *Logger) Debugf(format string, a ...any) { l.log(Debug, fmt.Sprintf(format, a...)) }
func (l *Logger) Infof(format string, a ...any)  { l.log(Info, fmt.Sprintf(format, a...)) }
func (l *Logger) Warnf(format string, a ...any)  { l.log(Warn, fmt.Sprintf(format, a...)) }
func (l *Logger) Errorf(format string, a ...any) { l.log(Error, fmt.Sprintf(format, a...)) }

func (l *Logger) log(level Level, msg string) {
	if l == nil || !l.Enabled(level) {
		return
	}
	lvl := levelString(level)
	if l.json {
		payload := map[string]any{
			"ts":    time.Now().Format(time.RFC3339Nano),
			"level": lvl,
			"msg":   msg,
		}
		_ = json.NewEncoder(l.out).Encode(payload)
		return
	}
	fmt.Fprintf(l.out, "%s %s\t%s\n", time.Now().Format("15:04:05"), strings.ToUpper(lvl), msg)
}
