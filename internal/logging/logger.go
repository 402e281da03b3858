package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level. Unknown values default to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Format selects the output line format.
type Format int

const (
	// FormatText emits "2006-01-02 15:04:05 [INFO] [component] file.go:12 - msg".
	FormatText Format = iota
	// FormatJSON emits one JSON object per line.
	FormatJSON
)

// ParseFormat maps "text"/"json" to a Format. Unknown values default to text.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

// Logger defines a minimal, printf-style logging contract.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

// OrNop returns logger when non-nil, otherwise a no-op logger.
func OrNop(logger Logger) Logger {
	if logger == nil {
		return Nop()
	}
	return logger
}

type root struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	format Format
}

var (
	rootOnce     sync.Once
	rootInstance *root
)

// Setup configures the process-wide logger sink. Safe to call once at start;
// later calls adjust level and format only.
//
// The stdio MCP transport owns stdout, so log lines always go to stderr.
func Setup(level Level, format Format) {
	r := getRoot()
	r.mu.Lock()
	r.level = level
	r.format = format
	r.mu.Unlock()
}

func getRoot() *root {
	rootOnce.Do(func() {
		rootInstance = &root{out: os.Stderr, level: INFO, format: FormatText}
	})
	return rootInstance
}

// SetOutput redirects log output. Intended for tests.
func SetOutput(w io.Writer) {
	r := getRoot()
	r.mu.Lock()
	r.out = w
	r.mu.Unlock()
}

type componentLogger struct {
	component string
}

// NewComponentLogger returns the application logger scoped to a component.
func NewComponentLogger(component string) Logger {
	return &componentLogger{component: component}
}

func (l *componentLogger) Debug(format string, args ...any) { l.log(DEBUG, format, args...) }
func (l *componentLogger) Info(format string, args ...any)  { l.log(INFO, format, args...) }
func (l *componentLogger) Warn(format string, args ...any)  { l.log(WARN, format, args...) }
func (l *componentLogger) Error(format string, args ...any) { l.log(ERROR, format, args...) }

func (l *componentLogger) log(level Level, format string, args ...any) {
	r := getRoot()
	r.mu.Lock()
	defer r.mu.Unlock()

	if level < r.level {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if ok {
		file = filepath.Base(file)
	} else {
		file = "???"
		line = 0
	}

	component := l.component
	if component == "" {
		component = "sejmlex"
	}
	message := fmt.Sprintf(format, args...)
	now := time.Now()

	switch r.format {
	case FormatJSON:
		entry := map[string]any{
			"time":      now.Format(time.RFC3339),
			"level":     level.String(),
			"component": component,
			"caller":    fmt.Sprintf("%s:%d", file, line),
			"message":   message,
		}
		if data, err := json.Marshal(entry); err == nil {
			fmt.Fprintln(r.out, string(data))
		}
	default:
		fmt.Fprintf(r.out, "%s [%s] [%s] %s:%d - %s\n",
			now.Format("2006-01-02 15:04:05"), level.String(), component, file, line, message)
	}
}
