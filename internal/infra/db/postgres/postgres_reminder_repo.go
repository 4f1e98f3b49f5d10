package postgres

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-reminder-bot/internal/domain"
	"telegram-reminder-bot/internal/domain/model"
	"telegram-reminder-bot/internal/domain/ports/repository"
)

// Ensure reminderRepo implements repository.ReminderRepository
var _ repository.ReminderRepository = (*reminderRepo)(nil)

type reminderRepo struct {
	pool *pgxpool.Pool
}

func NewReminderRepo(pool *pgxpool.Pool) *reminderRepo {
	return &reminderRepo{pool: pool}
}

const reminderColumns = `id, owner_id, chat_id, text, due_at, status, delivery_attempts, claimed_at, created_at`

func (r *reminderRepo) Create(ctx context.Context, tx repository.Tx, rem *model.Reminder) error {
	const q = `
INSERT INTO reminders (id, owner_id, chat_id, text, due_at, status, delivery_attempts, claimed_at, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);`

	_, err := execSQL(ctx, r.pool, tx, q,
		rem.ID, rem.OwnerID, rem.ChatID, rem.Text, rem.DueAt, rem.Status, rem.DeliveryAttempts, rem.ClaimedAt, rem.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		default:
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domain.ErrInvalidArgument
			}
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *reminderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Reminder, error) {
	const q = `SELECT ` + reminderColumns + ` FROM reminders WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanReminderRow(row)
}

func (r *reminderRepo) ListActive(ctx context.Context, tx repository.Tx, ownerID int64) ([]*model.Reminder, error) {
	const q = `
SELECT ` + reminderColumns + `
  FROM reminders
 WHERE owner_id=$1 AND status='active'
 ORDER BY due_at ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q, ownerID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	return collectReminders(rows)
}

// ClaimDue atomically flips every due Active reminder to Dispatching and
// returns the claimed set. SKIP LOCKED keeps two concurrent dispatchers from
// ever claiming the same row.
func (r *reminderRepo) ClaimDue(ctx context.Context, tx repository.Tx, now time.Time) ([]*model.Reminder, error) {
	const q = `
WITH due AS (
    SELECT id FROM reminders
     WHERE status='active' AND due_at <= $1
     ORDER BY owner_id, due_at
       FOR UPDATE SKIP LOCKED
)
UPDATE reminders rem
   SET status='dispatching', claimed_at=$1
  FROM due
 WHERE rem.id = due.id
RETURNING rem.id, rem.owner_id, rem.chat_id, rem.text, rem.due_at, rem.status, rem.delivery_attempts, rem.claimed_at, rem.created_at;`

	rows, err := queryRows(ctx, r.pool, tx, q, now.UTC())
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	out, err := collectReminders(rows)
	if err != nil {
		return nil, err
	}
	// RETURNING gives no ordering guarantee; restore per-owner due order here.
	sort.Slice(out, func(i, j int) bool {
		if out[i].OwnerID != out[j].OwnerID {
			return out[i].OwnerID < out[j].OwnerID
		}
		return out[i].DueAt.Before(out[j].DueAt)
	})
	return out, nil
}

func (r *reminderRepo) FinalizeSent(ctx context.Context, tx repository.Tx, id string) error {
	// Also matches 'sent' so a second call is a no-op instead of an error.
	const q = `
UPDATE reminders
   SET status='sent', claimed_at=NULL
 WHERE id=$1 AND status IN ('dispatching','sent');`
	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reminderRepo) ReleaseClaim(ctx context.Context, tx repository.Tx, id string, attempts int) error {
	const q = `
UPDATE reminders
   SET status='active', delivery_attempts=$2, claimed_at=NULL
 WHERE id=$1 AND status='dispatching';`
	tag, err := execSQL(ctx, r.pool, tx, q, id, attempts)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *reminderRepo) Cancel(ctx context.Context, tx repository.Tx, ownerID int64, id string) (bool, error) {
	// The status guard makes a cancel racing a concurrent claim lose cleanly:
	// once a reminder is dispatching or terminal, no row matches.
	const q = `
UPDATE reminders
   SET status='cancelled'
 WHERE id=$1 AND owner_id=$2 AND status='active';`
	tag, err := execSQL(ctx, r.pool, tx, q, id, ownerID)
	if err != nil {
		return false, domain.ErrOperationFailed
	}
	return tag.RowsAffected() == 1, nil
}

func (r *reminderRepo) RecoverStale(ctx context.Context, tx repository.Tx, claimedBefore time.Time) (int, error) {
	const q = `
UPDATE reminders
   SET status='active', claimed_at=NULL
 WHERE status='dispatching' AND claimed_at < $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, claimedBefore.UTC())
	if err != nil {
		return 0, domain.ErrOperationFailed
	}
	return int(tag.RowsAffected()), nil
}

func scanReminderRow(row pgx.Row) (*model.Reminder, error) {
	rem := &model.Reminder{}
	var status string
	if err := row.Scan(&rem.ID, &rem.OwnerID, &rem.ChatID, &rem.Text, &rem.DueAt, &status, &rem.DeliveryAttempts, &rem.ClaimedAt, &rem.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	rem.Status = model.ReminderStatus(status)
	return rem, nil
}

func collectReminders(rows pgx.Rows) ([]*model.Reminder, error) {
	var out []*model.Reminder
	for rows.Next() {
		rem := &model.Reminder{}
		var status string
		if err := rows.Scan(&rem.ID, &rem.OwnerID, &rem.ChatID, &rem.Text, &rem.DueAt, &status, &rem.DeliveryAttempts, &rem.ClaimedAt, &rem.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		rem.Status = model.ReminderStatus(status)
		out = append(out, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}
