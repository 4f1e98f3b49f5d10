package memory

import (
	"context"
	"sync"
	"time"

	"telegram-reminder-bot/internal/domain/model"
	"telegram-reminder-bot/internal/domain/ports/repository"
)

// Ensure SessionRepo implements repository.SessionRepository
var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo keeps conversation state in process memory. Expiry is checked
// lazily on Get, mirroring the TTL the Redis implementation gets for free.
type SessionRepo struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[int64]*model.ConversationSession
}

func NewSessionRepo(ttl time.Duration) *SessionRepo {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SessionRepo{ttl: ttl, sessions: make(map[int64]*model.ConversationSession)}
}

func (r *SessionRepo) Get(_ context.Context, userID int64) (*model.ConversationSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		return nil, nil
	}
	if s.ExpiredAt(time.Now().UTC(), r.ttl) {
		delete(r.sessions, userID)
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *SessionRepo) Set(_ context.Context, s *model.ConversationSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.UserID] = &cp
	return nil
}

func (r *SessionRepo) Clear(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	return nil
}
