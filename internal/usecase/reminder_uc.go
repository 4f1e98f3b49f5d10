package usecase

import (
	"context"
	"time"

	"telegram-reminder-bot/internal/domain/model"
	"telegram-reminder-bot/internal/domain/ports/repository"
	"telegram-reminder-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ReminderUseCase = (*reminderUC)(nil)

type ReminderUseCase interface {
	// Create validates and persists a new Active reminder due at dueAtUTC.
	Create(ctx context.Context, ownerID, chatID int64, text string, dueAtUTC time.Time) (*model.Reminder, error)
	// ListActive returns the caller's pending reminders, ascending by due time.
	ListActive(ctx context.Context, ownerID int64) ([]*model.Reminder, error)
	// Cancel transitions an owned Active reminder to Cancelled. Returns false
	// when the id is unknown, owned by someone else, or already terminal.
	Cancel(ctx context.Context, ownerID int64, id string) (bool, error)
}

type reminderUC struct {
	reminders repository.ReminderRepository
	log       *zerolog.Logger
	now       func() time.Time
}

func NewReminderUseCase(reminders repository.ReminderRepository, logger *zerolog.Logger) *reminderUC {
	ucLog := logger.With().Str("component", "ReminderUC").Logger()
	return &reminderUC{reminders: reminders, log: &ucLog, now: time.Now}
}

func (u *reminderUC) Create(ctx context.Context, ownerID, chatID int64, text string, dueAtUTC time.Time) (*model.Reminder, error) {
	r, err := model.NewReminder(ownerID, chatID, text, dueAtUTC, u.now())
	if err != nil {
		return nil, err
	}
	if err := u.reminders.Create(ctx, repository.NoTX, r); err != nil {
		return nil, err
	}
	metrics.IncReminderCreated()
	u.log.Info().Str("id", r.ID).Int64("owner", ownerID).Time("due_at", r.DueAt).Msg("reminder created")
	return r, nil
}

func (u *reminderUC) ListActive(ctx context.Context, ownerID int64) ([]*model.Reminder, error) {
	return u.reminders.ListActive(ctx, repository.NoTX, ownerID)
}

func (u *reminderUC) Cancel(ctx context.Context, ownerID int64, id string) (bool, error) {
	ok, err := u.reminders.Cancel(ctx, repository.NoTX, ownerID, id)
	if err != nil {
		return false, err
	}
	if ok {
		metrics.IncReminderCancelled()
		u.log.Info().Str("id", id).Int64("owner", ownerID).Msg("reminder cancelled")
	}
	return ok, nil
}
