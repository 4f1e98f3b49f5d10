package telegram

import (
	"context"
	"sync"

	"telegram-reminder-bot/internal/domain/model"
	"telegram-reminder-bot/internal/domain/ports/adapter"
)

var _ adapter.Notifier = (*NoopBot)(nil)

// NoopBot records outbound messages instead of hitting the network. Useful in
// dev mode and in tests that exercise the dispatcher end to end.
type NoopBot struct {
	mu   sync.Mutex
	sent []model.OutboundMessage

	// SendErr, when set, is returned by every Send call.
	SendErr error
}

func NewNoopBot() *NoopBot { return &NoopBot{} }

func (n *NoopBot) Send(_ context.Context, out model.OutboundMessage) error {
	if n.SendErr != nil {
		return n.SendErr
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, out)
	return nil
}

// Sent returns a copy of everything delivered so far.
func (n *NoopBot) Sent() []model.OutboundMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.OutboundMessage, len(n.sent))
	copy(out, n.sent)
	return out
}
