// Package logging provides structured logging for the pipeline components.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New returns a component-scoped logger. Level comes from LOG_LEVEL
// (debug/info/warn/error, default info). Output is human-readable on a TTY
// and JSON otherwise.
func New(component string) zerolog.Logger {
	return NewWithWriter(component, os.Stderr)
}

// NewWithWriter is New with an explicit output, used by the daemon to log
// to a file and by tests to capture output.
func NewWithWriter(component string, w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	var out io.Writer = w
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: "15:04:05"}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
