// Package logger builds the zerolog logger shared by the service and client.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger tagged with the component name, writing JSON lines to
// stdout with unix-ms timestamps.
func New(component string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	return zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", component).
		Logger()
}
