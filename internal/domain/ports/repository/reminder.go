package repository

import (
	"context"
	"time"

	"telegram-reminder-bot/internal/domain/model"
)

// ReminderRepository is the port for durable reminder storage.
//
// ClaimDue is the contract the dispatcher's at-most-once guarantee rests on:
// it must atomically flip every Active reminder with due_at <= now to
// Dispatching and return exactly that set. Two concurrent callers must never
// both receive the same reminder. Results come back ordered by (owner_id,
// due_at) ascending so one user's simultaneous reminders go out in due order.
type ReminderRepository interface {
	Create(ctx context.Context, tx Tx, r *model.Reminder) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Reminder, error)
	ListActive(ctx context.Context, tx Tx, ownerID int64) ([]*model.Reminder, error)
	ClaimDue(ctx context.Context, tx Tx, now time.Time) ([]*model.Reminder, error)

	// FinalizeSent transitions Dispatching -> Sent. Idempotent: finalizing an
	// already-sent reminder is a no-op, not an error.
	FinalizeSent(ctx context.Context, tx Tx, id string) error

	// ReleaseClaim returns a Dispatching reminder to Active after a transient
	// delivery failure, recording the new attempt count for the retry cap.
	ReleaseClaim(ctx context.Context, tx Tx, id string, attempts int) error

	// Cancel transitions Active -> Cancelled. Returns false without error when
	// the reminder does not exist, is not owned by ownerID, or is already
	// terminal or claimed for dispatch.
	Cancel(ctx context.Context, tx Tx, ownerID int64, id string) (bool, error)

	// RecoverStale re-activates Dispatching reminders claimed before the
	// cutoff. Run once at startup so a crash mid-dispatch degrades to
	// at-least-once instead of losing reminders.
	RecoverStale(ctx context.Context, tx Tx, claimedBefore time.Time) (int, error)
}
