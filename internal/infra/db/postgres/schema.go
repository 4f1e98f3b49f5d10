package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Schema is the full reminders DDL. The (status, due_at) index backs ClaimDue;
// the owner index backs /list.
const Schema = `
CREATE TABLE IF NOT EXISTS reminders (
    id                TEXT PRIMARY KEY,
    owner_id          BIGINT      NOT NULL,
    chat_id           BIGINT      NOT NULL,
    text              TEXT        NOT NULL,
    due_at            TIMESTAMPTZ NOT NULL,
    status            TEXT        NOT NULL DEFAULT 'active',
    delivery_attempts INT         NOT NULL DEFAULT 0,
    claimed_at        TIMESTAMPTZ,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_reminders_status_due_at ON reminders (status, due_at);
CREATE INDEX IF NOT EXISTS idx_reminders_owner_status  ON reminders (owner_id, status);
`

// EnsureSchema applies the DDL. Statements are idempotent, so running it on
// every startup is safe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply reminders schema: %w", err)
	}
	return nil
}
