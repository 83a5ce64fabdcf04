package celebration

import (
	"context"
	"log/slog"
)

const (
	// KindConfetti celebrates a freshly stamped completion.
	KindConfetti = "confetti"
	// KindToast is the transient summary shown when the holder
	// acknowledges a new stamp.
	KindToast = "toast"
)

// Event describes a presentation-layer celebration payload.
type Event struct {
	Kind          string
	PassportCode  string
	ActivityTitle string
	Color         string
	Body          string
}

// Notifier delivers celebration events to the presentation layer.
// Delivery is best-effort; failures never affect redemption state.
type Notifier interface {
	Send(ctx context.Context, event Event) error
}

// LoggerNotifier is a stub implementation that writes events to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the event to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, event Event) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("celebration",
		"kind", event.Kind,
		"passport", event.PassportCode,
		"activity", event.ActivityTitle,
		"color", event.Color,
		"body", event.Body,
	)
	return nil
}
