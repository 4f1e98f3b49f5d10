package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"telegram-reminder-bot/internal/domain/model"

	goredis "github.com/go-redis/redis/v8"
)

// mockRedisClient implements RedisClient with function fields so each test
// overrides only what it needs.
type mockRedisClient struct {
	PingFunc func(ctx context.Context) error
	SetFunc  func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetFunc  func(ctx context.Context, key string) (string, error)
	DelFunc  func(ctx context.Context, keys ...string) error
}

func (m *mockRedisClient) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", goredis.Nil
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}

func (m *mockRedisClient) Close() error { return nil }

func TestSessionRepoGet(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key maps to a nil session", func(t *testing.T) {
		repo := NewSessionRepo(&mockRedisClient{}, time.Minute)
		got, err := repo.Get(ctx, 42)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("stored session round-trips", func(t *testing.T) {
		sess := model.NewConversationSession(42, 420)
		sess.State = model.ConversationAwaitingTime
		sess.DraftText = "buy milk"
		payload, _ := json.Marshal(sess)

		client := &mockRedisClient{GetFunc: func(_ context.Context, key string) (string, error) {
			if key != "conv_session:42" {
				t.Errorf("unexpected key: %s", key)
			}
			return string(payload), nil
		}}
		repo := NewSessionRepo(client, time.Minute)

		got, err := repo.Get(ctx, 42)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.State != model.ConversationAwaitingTime || got.DraftText != "buy milk" || got.ChatID != 420 {
			t.Errorf("unexpected session: %+v", got)
		}
	})

	t.Run("transport errors pass through", func(t *testing.T) {
		boom := errors.New("connection refused")
		client := &mockRedisClient{GetFunc: func(context.Context, string) (string, error) { return "", boom }}
		repo := NewSessionRepo(client, time.Minute)
		if _, err := repo.Get(ctx, 42); !errors.Is(err, boom) {
			t.Errorf("expected the transport error, got %v", err)
		}
	})
}

func TestSessionRepoSetUsesTTL(t *testing.T) {
	ctx := context.Background()

	var gotKey string
	var gotTTL time.Duration
	client := &mockRedisClient{SetFunc: func(_ context.Context, key string, value interface{}, expiration time.Duration) error {
		gotKey = key
		gotTTL = expiration
		var sess model.ConversationSession
		if err := json.Unmarshal(value.([]byte), &sess); err != nil {
			t.Errorf("stored payload is not a session: %v", err)
		}
		return nil
	}}
	repo := NewSessionRepo(client, 7*time.Minute)

	if err := repo.Set(ctx, model.NewConversationSession(42, 420)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if gotKey != "conv_session:42" {
		t.Errorf("unexpected key: %s", gotKey)
	}
	if gotTTL != 7*time.Minute {
		t.Errorf("expected the idle ttl on the key, got %v", gotTTL)
	}
}

func TestSessionRepoClear(t *testing.T) {
	var deleted []string
	client := &mockRedisClient{DelFunc: func(_ context.Context, keys ...string) error {
		deleted = append(deleted, keys...)
		return nil
	}}
	repo := NewSessionRepo(client, time.Minute)

	if err := repo.Clear(context.Background(), 42); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != "conv_session:42" {
		t.Errorf("unexpected deletes: %v", deleted)
	}
}
