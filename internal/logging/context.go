package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldFile is the standardized structured logging key for the file a pipeline is processing.
	FieldFile = "file"
	// FieldSlot is the standardized structured logging key for the pipeline slot being executed.
	FieldSlot = "slot"
	// FieldBackend is the standardized structured logging key for backend identities.
	FieldBackend = "backend"
	// FieldRunID is the standardized structured logging key for batch run identifiers.
	FieldRunID = "run_id"
	// FieldEventType is the standardized structured logging key for machine-readable event names.
	FieldEventType = "event_type"
)

type contextKey int

const (
	fileContextKey contextKey = iota
	slotContextKey
)

// WithFile stores the file under processing in the context.
func WithFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, fileContextKey, path)
}

// WithSlot stores the active pipeline slot in the context.
func WithSlot(ctx context.Context, slot string) context.Context {
	return context.WithValue(ctx, slotContextKey, slot)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if file, ok := ctx.Value(fileContextKey).(string); ok && file != "" {
		fields = append(fields, slog.String(FieldFile, file))
	}
	if slot, ok := ctx.Value(slotContextKey).(string); ok && slot != "" {
		fields = append(fields, slog.String(FieldSlot, slot))
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
	return logger.With(attrsToArgs(fields)...)
}
