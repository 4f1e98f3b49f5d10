package model

import "time"

type ConversationState string

const (
	ConversationIdle         ConversationState = "idle"
	ConversationAwaitingText ConversationState = "awaiting_text"
	ConversationAwaitingTime ConversationState = "awaiting_time"
)

// ConversationSession tracks a user's progress through the guided creation
// flow. Sessions are ephemeral: the store expires them after an idle timeout
// so an abandoned flow cannot wedge the user in a non-idle state.
type ConversationSession struct {
	UserID    int64             `json:"user_id"`
	ChatID    int64             `json:"chat_id"`
	State     ConversationState `json:"state"`
	DraftText string            `json:"draft_text"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func NewConversationSession(userID, chatID int64) *ConversationSession {
	return &ConversationSession{
		UserID:    userID,
		ChatID:    chatID,
		State:     ConversationIdle,
		UpdatedAt: time.Now().UTC(),
	}
}

func (s *ConversationSession) Touch() { s.UpdatedAt = time.Now().UTC() }

// ExpiredAt reports whether the session has been idle longer than ttl.
func (s *ConversationSession) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.UpdatedAt) > ttl
}
