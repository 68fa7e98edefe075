// Package avatar implements the HTTP avatar-serving surface on top of
// the imgscale resampler: PNG/JPEG decode/encode adapters, the
// mystery-man and blank placeholder generators, and the
// GET /avatar/<hash> handler itself.
package avatar

import (
	"os"

	"github.com/rs/zerolog"
)

// Log is the package-wide structured logger for the HTTP handler and
// the CLI. The resampler core (package imgscale) performs no logging
// of its own; all request/error logging for a scale happens here, at
// the boundary where it is actually useful to an operator.
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Caller().Logger()
