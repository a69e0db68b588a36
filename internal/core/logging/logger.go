// Package logging holds the logger helpers shared by sqcrop components.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns the global logger tagged with a component name under
// the "cmp" key. Call it after the global logger is configured; the result
// does not follow later changes to log.Logger.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
