// Package extensions provides ready-made vselect extensions: structured
// operation logging and access-set dumping for debugging what a selector
// actually tracks.
package extensions

import (
	"context"
	"log/slog"
	"time"

	vselect "github.com/ts-zen/valtio-select"
)

// LoggingExtension logs every evaluate/rebuild operation with its
// duration, the subscription id, and the size of the resulting access
// set, through log/slog.
type LoggingExtension struct {
	vselect.BaseExtension
	logger *slog.Logger
}

// NewLoggingExtension creates a logging extension writing to the given
// slog.Handler (use NewSilentHandler for quiet tests).
func NewLoggingExtension(handler slog.Handler) *LoggingExtension {
	return &LoggingExtension{
		BaseExtension: vselect.NewBaseExtension("logging"),
		logger:        slog.New(handler),
	}
}

func (e *LoggingExtension) Wrap(ctx context.Context, next func() (any, error), op *vselect.Operation) (any, error) {
	start := time.Now()
	result, err := next()
	duration := time.Since(start)

	if err != nil {
		e.logger.Error("operation failed",
			"operation", string(op.Kind),
			"subscription", op.Subscription.ID(),
			"duration", duration,
			"error", err.Error(),
		)
		return result, err
	}

	e.logger.Info("operation completed",
		"operation", string(op.Kind),
		"subscription", op.Subscription.ID(),
		"duration", duration,
		"accesses", len(op.Accesses),
	)
	return result, err
}

func (e *LoggingExtension) OnError(err error, op *vselect.Operation) {
	e.logger.Error("subscription error",
		"operation", string(op.Kind),
		"subscription", op.Subscription.ID(),
		"error", err.Error(),
	)
}

func (e *LoggingExtension) OnTeardown(sub vselect.AnySubscription) {
	e.logger.Info("subscription torn down",
		"subscription", sub.ID(),
		"accesses", sub.AccessCount(),
	)
}

// SilentHandler is a slog.Handler that discards all log output
// Useful for testing when you don't want log output
type SilentHandler struct{}

// NewSilentHandler creates a new silent log handler
func NewSilentHandler() *SilentHandler {
	return &SilentHandler{}
}

func (h *SilentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return false // Never enabled, discards everything
}

func (h *SilentHandler) Handle(ctx context.Context, record slog.Record) error {
	return nil // Do nothing
}

func (h *SilentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h // Return self, no state to modify
}

func (h *SilentHandler) WithGroup(name string) slog.Handler {
	return h // Return self, no state to modify
}
