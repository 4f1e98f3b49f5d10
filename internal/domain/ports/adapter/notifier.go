package adapter

import (
	"context"

	"telegram-reminder-bot/internal/domain/model"
)

// Notifier delivers an outbound message to its chat. Errors are treated as
// transient by the dispatcher and retried up to the attempt cap.
type Notifier interface {
	Send(ctx context.Context, msg model.OutboundMessage) error
}
