package services

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	trackKey contextKey = "track"
)

// WithRunID annotates context with the pipeline run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithTrack annotates context with the relative path of the file in flight.
func WithTrack(ctx context.Context, rel string) context.Context {
	if rel == "" {
		return ctx
	}
	return context.WithValue(ctx, trackKey, rel)
}

// TrackFromContext returns the in-flight file's relative path if present.
func TrackFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(trackKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
