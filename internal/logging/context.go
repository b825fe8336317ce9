package logging

import (
	"context"
	"log/slog"
	"strings"
)

type contextKey string

const (
	songIDKey contextKey = "song_id"
	runIDKey  contextKey = "run_id"
)

// WithSongID returns a context carrying the song identifier.
func WithSongID(ctx context.Context, songID string) context.Context {
	return context.WithValue(ctx, songIDKey, songID)
}

// WithRunID returns a context carrying the scoring run identifier.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := ctx.Value(songIDKey).(string); ok && strings.TrimSpace(id) != "" {
		fields = append(fields, slog.String(FieldSongID, id))
	}
	if id, ok := ctx.Value(runIDKey).(string); ok && strings.TrimSpace(id) != "" {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
