package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id BIGSERIAL PRIMARY KEY,
	chat_id BIGINT NOT NULL,
	media_id TEXT NOT NULL,
	type TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	locale TEXT NOT NULL DEFAULT 'en',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_jobs_status_created ON jobs (status, created_at);

-- One active job per operation per media item; duplicates surface as
-- conflicts at enqueue time, the scheduler never has to deduplicate.
CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_active
	ON jobs (media_id, type)
	WHERE status IN ('pending', 'in_progress');

CREATE TABLE IF NOT EXISTS media_results (
	id BIGSERIAL PRIMARY KEY,
	media_id TEXT NOT NULL UNIQUE,
	transcript_text TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT '',
	normalized_text TEXT NOT NULL DEFAULT '',
	word_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS outbox (
	id BIGSERIAL PRIMARY KEY,
	event_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	aggregate_id TEXT NOT NULL,
	payload JSONB NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	processed_at TIMESTAMPTZ
);
`

func InitSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
