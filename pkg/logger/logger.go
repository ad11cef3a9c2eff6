package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds the service logger. Development output is human readable,
// everything else is JSON with the level under "severity".
func New(development bool) zerolog.Logger {
	return newWithWriter(development, os.Stderr)
}

func newWithWriter(development bool, w io.Writer) zerolog.Logger {
	zerolog.LevelFieldName = "severity"
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if development {
		w = zerolog.ConsoleWriter{Out: w}
	}
	l := zerolog.New(w).With().Timestamp().Str("service", "coursedash").Logger()
	if development {
		return l.Level(zerolog.DebugLevel)
	}
	return l.Level(zerolog.InfoLevel)
}
