package utils

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger provides structured, leveled logging throughout the application.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger creates a new Logger writing text lines to stdout at info level.
func NewLogger() *Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	base.SetLevel(logrus.InfoLevel)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &Logger{entry: logrus.NewEntry(base)}
}

// Configure applies the level and format names from config. Unknown levels keep info.
func (l *Logger) Configure(level, format string) {
	if lvl, err := logrus.ParseLevel(level); err == nil {
		l.entry.Logger.SetLevel(lvl)
	}
	if strings.EqualFold(format, "json") {
		l.entry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}
}

// SetOutput redirects every logger derived from l.
func (l *Logger) SetOutput(w io.Writer) {
	l.entry.Logger.SetOutput(w)
}

// Fields returns a child logger tagged with the module and function names.
func (l *Logger) Fields(module, funcName string) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields{
		"module":   module,
		"funcName": funcName,
	})}
}

func (l *Logger) Info(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.entry.Debugf(format, args...)
}
