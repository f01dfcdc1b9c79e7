package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

var levelNames = map[string]LogLevel{
	"none":    LogLevelNone,
	"error":   LogLevelError,
	"warn":    LogLevelWarning,
	"warning": LogLevelWarning,
	"info":    LogLevelInfo,
	"debug":   LogLevelDebug,
}

// ParseLevel accepts a level name (as used in the config file) or its number.
func ParseLevel(s string) (LogLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if l, ok := levelNames[s]; ok {
		return l, nil
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && n >= int(LogLevelNone) && n <= int(LogLevelDebug) {
		return LogLevel(n), nil
	}
	return LogLevelNone, fmt.Errorf("invalid log level: %q", s)
}

type Logger struct {
	logger *log.Logger
	level  LogLevel
	tag    string
}

// NewLogger wraps a standard logger. A nil logger discards everything but
// Fatalf, which still exits.
func NewLogger(logger *log.Logger, level LogLevel) *Logger {
	return &Logger{
		logger: logger,
		level:  level,
	}
}

// NewStdLogger picks the output format the way the service is run: no
// timestamps under systemd (journald adds them), timestamps otherwise.
func NewStdLogger() *log.Logger {
	if os.Getenv("INVOCATION_ID") != "" {
		return log.New(os.Stdout, "", 0)
	}
	return log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds|log.Lmsgprefix)
}

// WithTag creates a new logger with a tag prefix
func (l *Logger) WithTag(tag string) *Logger {
	return &Logger{
		logger: l.logger,
		level:  l.level,
		tag:    tag,
	}
}

func (l *Logger) Level() LogLevel { return l.level }

func (l *Logger) formatMessage(level string, format string) string {
	if l.tag != "" {
		if level != "" {
			return "[" + l.tag + "] " + level + " " + format
		}
		return "[" + l.tag + "] " + format
	}
	if level != "" {
		return level + " " + format
	}
	return format
}

func (l *Logger) printf(min LogLevel, level, format string, v ...interface{}) {
	if l.logger == nil || l.level < min {
		return
	}
	l.logger.Printf(l.formatMessage(level, format), v...)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.printf(LogLevelDebug, "DEBUG:", format, v...)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.printf(LogLevelInfo, "", format, v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.printf(LogLevelWarning, "WARN:", format, v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.printf(LogLevelError, "ERROR:", format, v...)
}

func (l *Logger) Fatalf(format string, v ...interface{}) {
	if l.logger == nil {
		log.Fatalf(l.formatMessage("FATAL:", format), v...)
	}
	l.logger.Fatalf(l.formatMessage("FATAL:", format), v...)
}
