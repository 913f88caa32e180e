package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS skus (
	id            BIGSERIAL PRIMARY KEY,
	code          VARCHAR(50) NOT NULL,
	description   VARCHAR(255) NOT NULL DEFAULT '',
	quantity      BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
	reorder_point BIGINT NOT NULL DEFAULT 0 CHECK (reorder_point >= 0),
	price         NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_skus_code ON skus (code);

CREATE TABLE IF NOT EXISTS idempotency_keys (
	key        TEXT PRIMARY KEY,
	module     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

// Migrate applies the schema. Statements are idempotent so this is safe to
// run on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("platform/db: migrate: %w", err)
	}
	return nil
}
