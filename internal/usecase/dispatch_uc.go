package usecase

import (
	"context"
	"fmt"
	"time"

	"telegram-reminder-bot/internal/domain/model"
	"telegram-reminder-bot/internal/domain/ports/adapter"
	"telegram-reminder-bot/internal/domain/ports/repository"
	"telegram-reminder-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// DefaultMaxAttempts bounds delivery retries so a permanently unreachable
// chat cannot keep a reminder looping forever.
const DefaultMaxAttempts = 5

// Compile-time check
var _ DispatchUseCase = (*dispatchUC)(nil)

type DispatchUseCase interface {
	// RunOnce claims every due reminder and attempts delivery. The claim is
	// taken before the network call, so a crash mid-send can never produce a
	// duplicate claim. Returns how many reminders were finalized as sent.
	RunOnce(ctx context.Context) (int, error)
	// RecoverStale re-activates claims older than olderThan. Called once on
	// startup: a process that died mid-dispatch leaves reminders stuck in
	// Dispatching, and losing them is worse than a duplicate delivery.
	RecoverStale(ctx context.Context, olderThan time.Duration) (int, error)
}

type dispatchUC struct {
	reminders   repository.ReminderRepository
	notifier    adapter.Notifier
	maxAttempts int
	log         *zerolog.Logger
	now         func() time.Time
}

func NewDispatchUseCase(reminders repository.ReminderRepository, notifier adapter.Notifier, maxAttempts int, logger *zerolog.Logger) *dispatchUC {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	ucLog := logger.With().Str("component", "DispatchUC").Logger()
	return &dispatchUC{
		reminders:   reminders,
		notifier:    notifier,
		maxAttempts: maxAttempts,
		log:         &ucLog,
		now:         time.Now,
	}
}

func (u *dispatchUC) RunOnce(ctx context.Context) (int, error) {
	started := time.Now()
	nowUTC := u.now().UTC()

	claimed, err := u.reminders.ClaimDue(ctx, repository.NoTX, nowUTC)
	if err != nil {
		return 0, fmt.Errorf("claim due reminders: %w", err)
	}
	if len(claimed) == 0 {
		return 0, nil
	}
	metrics.AddDispatchClaimed(len(claimed))

	// Delivery failures on one reminder must never block the rest of the
	// batch, so every branch below logs and continues.
	sent := 0
	for _, r := range claimed {
		if err := u.notifier.Send(ctx, model.OutboundMessage{
			ChatID: r.ChatID,
			Text:   "Reminder: " + r.Text,
		}); err != nil {
			u.handleDeliveryFailure(ctx, r, err)
			continue
		}
		if err := u.reminders.FinalizeSent(ctx, repository.NoTX, r.ID); err != nil {
			u.log.Error().Err(err).Str("id", r.ID).Msg("finalize after send failed")
			continue
		}
		metrics.IncDispatchDelivery("sent")
		sent++
	}

	metrics.ObserveDispatchBatch(time.Since(started))
	u.log.Info().Int("claimed", len(claimed)).Int("sent", sent).Msg("dispatch batch complete")
	return sent, nil
}

// handleDeliveryFailure releases the claim for a retry on the next tick, or
// force-finalizes once the attempt cap is reached.
func (u *dispatchUC) handleDeliveryFailure(ctx context.Context, r *model.Reminder, sendErr error) {
	attempts := r.DeliveryAttempts + 1
	if attempts >= u.maxAttempts {
		u.log.Error().Err(sendErr).Str("id", r.ID).Int("attempts", attempts).
			Msg("delivery permanently failed, force-finalizing")
		if err := u.reminders.FinalizeSent(ctx, repository.NoTX, r.ID); err != nil {
			u.log.Error().Err(err).Str("id", r.ID).Msg("force-finalize failed")
		}
		metrics.IncDispatchDelivery("failed")
		return
	}
	u.log.Warn().Err(sendErr).Str("id", r.ID).Int("attempts", attempts).Msg("delivery failed, will retry")
	if err := u.reminders.ReleaseClaim(ctx, repository.NoTX, r.ID, attempts); err != nil {
		u.log.Error().Err(err).Str("id", r.ID).Msg("release claim failed")
	}
	metrics.IncDispatchDelivery("retried")
}

func (u *dispatchUC) RecoverStale(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := u.now().UTC().Add(-olderThan)
	n, err := u.reminders.RecoverStale(ctx, repository.NoTX, cutoff)
	if err != nil {
		return 0, fmt.Errorf("recover stale claims: %w", err)
	}
	if n > 0 {
		u.log.Warn().Int("count", n).Msg("recovered stale dispatching reminders")
	}
	return n, nil
}
