package logging

import "context"

// scope is the per-run metadata carried on a context and copied onto log
// events by ContextHook.
type scope struct {
	runID string
	label string
}

type scopeKey struct{}

func scopeOf(ctx context.Context) scope {
	if ctx == nil {
		return scope{}
	}
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

// WithRunID tags every log event made with ctx as belonging to one sqcrop
// invocation.
func WithRunID(ctx context.Context, runID string) context.Context {
	s := scopeOf(ctx)
	s.runID = runID
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithLabel narrows ctx to one acquisition label. The run ID is kept.
func WithLabel(ctx context.Context, label string) context.Context {
	s := scopeOf(ctx)
	s.label = label
	return context.WithValue(ctx, scopeKey{}, s)
}

// GetRunID returns the run ID on ctx, or "".
func GetRunID(ctx context.Context) string {
	return scopeOf(ctx).runID
}

// GetLabel returns the acquisition label on ctx, or "".
func GetLabel(ctx context.Context) string {
	return scopeOf(ctx).label
}
