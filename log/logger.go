// Package log provides leveled, named loggers for the renderer
// subsystems. It wraps go-logging so packages never import the logging
// backend directly.
package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

type Level logging.Level

// The verbosity levels accepted by SetLevel, most verbose first.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levelMap = map[Level]logging.Level{
	Debug:   logging.DEBUG,
	Info:    logging.INFO,
	Notice:  logging.NOTICE,
	Warning: logging.WARNING,
	Error:   logging.ERROR,
}

var logFormat = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{module} [%{level:.4s}]%{color:reset} %{message}`,
)

var backend logging.LeveledBackend

// Logger is the leveled logging surface handed out to the renderer
// packages.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns a named logger. Loggers sharing a name share state.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects all logger output to the given writer. The current
// verbosity level is preserved across sink changes.
func SetSink(sink io.Writer) {
	level := logging.NOTICE
	if backend != nil {
		level = backend.GetLevel("")
	}

	formatted := logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), logFormat)
	backend = logging.AddModuleLevel(formatted)
	backend.SetLevel(level, "")
	logging.SetBackend(backend)
}

// SetLevel adjusts the verbosity of all loggers.
func SetLevel(level Level) {
	mapped, exists := levelMap[level]
	if !exists {
		mapped = logging.NOTICE
	}
	backend.SetLevel(mapped, "")
}

func init() {
	SetSink(os.Stdout)
}
