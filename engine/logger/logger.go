// Package logger is the process-wide structured logger shared by every engine package.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger
)

func get() *log.Logger {
	once.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "oxy-xr",
		})
		singleton.SetLevel(log.InfoLevel)
	})
	return singleton
}

// SetLevel parses a level name ("debug", "info", "warn", "error", "fatal") and applies it.
// Unknown names leave the current level in place and return the parse error.
//
// Parameters:
//   - level: the level name
//
// Returns:
//   - error: the parse error for an unknown level, otherwise nil
func SetLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	get().SetLevel(lvl)
	return nil
}

// SetOutput redirects log output, mainly so tests can capture it.
func SetOutput(w io.Writer) {
	get().SetOutput(w)
}

func Debug(msg string, keyvals ...any) {
	get().Helper()
	get().Debug(msg, keyvals...)
}

func Info(msg string, keyvals ...any) {
	get().Helper()
	get().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...any) {
	get().Helper()
	get().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...any) {
	get().Helper()
	get().Error(msg, keyvals...)
}

// Fatal logs at fatal level and exits the process with status 1.
func Fatal(msg string, keyvals ...any) {
	get().Helper()
	get().Fatal(msg, keyvals...)
}
