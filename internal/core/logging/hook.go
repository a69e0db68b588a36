package logging

import "github.com/rs/zerolog"

// ContextHook copies the run scope of an event's context (see WithRunID and
// WithLabel) onto the event. Events logged without Ctx are left alone.
type ContextHook struct{}

// Run implements zerolog.Hook.
func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	s := scopeOf(e.GetCtx())
	if s.runID != "" {
		e.Str("run_id", s.runID)
	}
	if s.label != "" {
		e.Str("label", s.label)
	}
}
