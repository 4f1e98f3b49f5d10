package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"telegram-reminder-bot/internal/domain"
	"telegram-reminder-bot/internal/domain/model"
	"telegram-reminder-bot/internal/domain/ports/repository"
)

// Ensure ReminderRepo implements repository.ReminderRepository
var _ repository.ReminderRepository = (*ReminderRepo)(nil)

// ReminderRepo is a mutex-guarded in-memory store. It honors the same atomic
// ClaimDue contract as the Postgres repository, which makes it usable both in
// tests and as a volatile backend in dev mode. The Tx argument is ignored.
type ReminderRepo struct {
	mu    sync.Mutex
	items map[string]*model.Reminder
}

func NewReminderRepo() *ReminderRepo {
	return &ReminderRepo{items: make(map[string]*model.Reminder)}
}

func (r *ReminderRepo) Create(_ context.Context, _ repository.Tx, rem *model.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[rem.ID]; exists {
		return domain.ErrInvalidArgument
	}
	cp := *rem
	r.items[rem.ID] = &cp
	return nil
}

func (r *ReminderRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rem
	return &cp, nil
}

func (r *ReminderRepo) ListActive(_ context.Context, _ repository.Tx, ownerID int64) ([]*model.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Reminder
	for _, rem := range r.items {
		if rem.OwnerID == ownerID && rem.Status == model.ReminderStatusActive {
			cp := *rem
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	return out, nil
}

// ClaimDue flips due Active reminders to Dispatching under one lock
// acquisition, so concurrent callers partition the due set.
func (r *ReminderRepo) ClaimDue(_ context.Context, _ repository.Tx, now time.Time) ([]*model.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	claimedAt := now.UTC()
	var out []*model.Reminder
	for _, rem := range r.items {
		if rem.Due(now) {
			rem.Status = model.ReminderStatusDispatching
			rem.ClaimedAt = &claimedAt
			cp := *rem
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OwnerID != out[j].OwnerID {
			return out[i].OwnerID < out[j].OwnerID
		}
		return out[i].DueAt.Before(out[j].DueAt)
	})
	return out, nil
}

func (r *ReminderRepo) FinalizeSent(_ context.Context, _ repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	switch rem.Status {
	case model.ReminderStatusSent:
		return nil // idempotent
	case model.ReminderStatusDispatching:
		rem.Status = model.ReminderStatusSent
		rem.ClaimedAt = nil
		return nil
	default:
		return domain.ErrNotFound
	}
}

func (r *ReminderRepo) ReleaseClaim(_ context.Context, _ repository.Tx, id string, attempts int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.items[id]
	if !ok || rem.Status != model.ReminderStatusDispatching {
		return domain.ErrNotFound
	}
	rem.Status = model.ReminderStatusActive
	rem.DeliveryAttempts = attempts
	rem.ClaimedAt = nil
	return nil
}

func (r *ReminderRepo) Cancel(_ context.Context, _ repository.Tx, ownerID int64, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.items[id]
	if !ok || rem.OwnerID != ownerID || rem.Status != model.ReminderStatusActive {
		return false, nil
	}
	rem.Status = model.ReminderStatusCancelled
	return true, nil
}

func (r *ReminderRepo) RecoverStale(_ context.Context, _ repository.Tx, claimedBefore time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rem := range r.items {
		if rem.Status == model.ReminderStatusDispatching && rem.ClaimedAt != nil && rem.ClaimedAt.Before(claimedBefore) {
			rem.Status = model.ReminderStatusActive
			rem.ClaimedAt = nil
			n++
		}
	}
	return n, nil
}
