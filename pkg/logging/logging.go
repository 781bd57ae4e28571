// Package logging builds the zerolog loggers shared by every pipeline stage.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a human-readable logger writing to w, tagged with component.
func New(w io.Writer, component string) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).With().Timestamp().Str("component", component).Logger()
}

// Stderr is New on os.Stderr.
func Stderr(component string) zerolog.Logger { return New(os.Stderr, component) }

// Nop discards everything; used by tests.
func Nop() zerolog.Logger { return zerolog.Nop() }
