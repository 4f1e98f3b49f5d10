package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"telegram-reminder-bot/internal/domain/model"
	"telegram-reminder-bot/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

// Ensure the adapter implements the port interface.
var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo stores conversation state in Redis. The key TTL doubles as the
// idle timeout: an abandoned guided flow simply evaporates, so a user can
// never get stuck outside the idle state.
type SessionRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewSessionRepo(client RedisClient, ttl time.Duration) *SessionRepo {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SessionRepo{client: client, ttl: ttl}
}

func (s *SessionRepo) sessionKey(userID int64) string {
	return fmt.Sprintf("conv_session:%d", userID)
}

func (s *SessionRepo) Get(ctx context.Context, userID int64) (*model.ConversationSession, error) {
	data, err := s.client.Get(ctx, s.sessionKey(userID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var sess model.ConversationSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SessionRepo) Set(ctx context.Context, sess *model.ConversationSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.sessionKey(sess.UserID), data, s.ttl)
}

func (s *SessionRepo) Clear(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, s.sessionKey(userID))
}
