package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates the decks table if it does not exist yet.
// Safe to call on every boot.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS decks (
    id UUID PRIMARY KEY,
    owner_id TEXT NOT NULL,
    title TEXT NOT NULL,
    topic TEXT NOT NULL,
    cards JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_decks_owner_created
    ON decks(owner_id, created_at DESC);
`
