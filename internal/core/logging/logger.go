// Package logging holds the context fields and helpers shared by every
// ticketlog logger.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger from the global logger with a component
// identifier. Services that accept a logger use the same "component" key.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
