package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	roles         TEXT[] NOT NULL DEFAULT '{}',
	enabled       BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS cards (
	id              UUID PRIMARY KEY,
	number_cipher   TEXT NOT NULL,
	number_hash     TEXT NOT NULL,
	expiration_date DATE NOT NULL,
	status          TEXT NOT NULL CHECK (status IN ('ACTIVE', 'BLOCK_REQUESTED', 'BLOCKED', 'EXPIRED')),
	balance         NUMERIC(19, 2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
	active          BOOLEAN NOT NULL DEFAULT TRUE,
	owner_id        UUID NOT NULL REFERENCES users (id),
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS cards_number_hash_active_idx ON cards (number_hash) WHERE active;
CREATE INDEX IF NOT EXISTS cards_owner_id_idx ON cards (owner_id);
CREATE INDEX IF NOT EXISTS cards_status_idx ON cards (status);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	id         UUID PRIMARY KEY,
	token      TEXT NOT NULL UNIQUE,
	user_id    UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	expires_at TIMESTAMPTZ NOT NULL
);
`

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
