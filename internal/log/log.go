package log

import (
	"os"

	"github.com/rs/zerolog"
)

var (
	// L is the shared default logger for the diagnostic channel
	// (use log.L.Error().Msg(...)). It writes to stderr because the
	// channel carries failure diagnostics.
	L zerolog.Logger
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	L = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Console returns a logger with human-readable output, for interactive
// tools.
func Console() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
