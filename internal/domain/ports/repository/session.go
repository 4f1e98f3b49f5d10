package repository

import (
	"context"

	"telegram-reminder-bot/internal/domain/model"
)

// SessionRepository is the port for conversational state, keyed by user ID.
// Implementations must expire sessions after the configured idle timeout;
// Get returns (nil, nil) when no live session exists.
type SessionRepository interface {
	Get(ctx context.Context, userID int64) (*model.ConversationSession, error)
	Set(ctx context.Context, s *model.ConversationSession) error
	Clear(ctx context.Context, userID int64) error
}
