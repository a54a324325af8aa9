package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ComponentKey is the field name carrying the component identifier.
const ComponentKey = "cmp"

// Component creates a new logger with a component identifier from the
// global logger.
func Component(name string) zerolog.Logger {
	return log.With().Str(ComponentKey, name).Logger()
}

// ComponentOf derives a component logger from an existing logger.
func ComponentOf(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str(ComponentKey, name).Logger()
}
