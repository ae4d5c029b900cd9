package notify

import (
	"context"
	"log/slog"
	"sync"

	"atelier/contexts/scheduling/booking-service/ports"
)

// LogNotifier is the default outbound transport: it records the message in
// the process log instead of calling an email or chat provider. Runtime
// wiring swaps in a real transport per environment.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Dispatch(_ context.Context, notification ports.Notification) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification dispatched",
		"event", "notify_dispatched",
		"module", "internal/platform/notify",
		"layer", "platform",
		"channel", string(notification.Channel),
		"destination", notification.Destination,
		"subject", notification.Subject,
	)
	return nil
}

// RecordingNotifier captures dispatches for tests.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []ports.Notification

	// FailWith, when set, is returned from every Dispatch call.
	FailWith error
}

func (n *RecordingNotifier) Dispatch(_ context.Context, notification ports.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailWith != nil {
		return n.FailWith
	}
	n.sent = append(n.sent, notification)
	return nil
}

func (n *RecordingNotifier) Sent() []ports.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.Notification(nil), n.sent...)
}

var _ ports.Notifier = LogNotifier{}
var _ ports.Notifier = (*RecordingNotifier)(nil)
