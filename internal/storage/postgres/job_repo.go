package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/vetrovs/mediabot/internal/jobs/models"
)

const uniqueViolation = "23505"

type JobRepo struct {
	db *sqlx.DB
}

func NewJobRepo(db *sqlx.DB) *JobRepo {
	return &JobRepo{db: db}
}

func (r *JobRepo) Enqueue(ctx context.Context, job *models.Job) error {
	const q = `
		INSERT INTO jobs (chat_id, media_id, type, status, error_message, locale, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.GetContext(ctx, &job.ID, q,
		job.ChatID, job.MediaID, job.Type, job.Status, job.ErrorMessage, job.Locale, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.ErrConflict
		}
		return fmt.Errorf("job enqueue: %w", err)
	}
	return nil
}

func (r *JobRepo) NextPending(ctx context.Context) (*models.Job, error) {
	const q = `
		SELECT id, chat_id, media_id, type, status, error_message, locale, created_at, updated_at
		FROM jobs
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT 1
	`

	var job models.Job
	if err := r.db.GetContext(ctx, &job, q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("job next pending: %w", err)
	}

	return &job, nil
}

func (r *JobRepo) Save(ctx context.Context, job *models.Job) error {
	const q = `
		INSERT INTO jobs (id, chat_id, media_id, type, status, error_message, locale, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			error_message = EXCLUDED.error_message,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, q,
		job.ID, job.ChatID, job.MediaID, job.Type, job.Status, job.ErrorMessage, job.Locale, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("job save: %w", err)
	}
	return nil
}

func (r *JobRepo) FindStuck(ctx context.Context, olderThan time.Duration) ([]*models.Job, error) {
	const q = `
		SELECT id, chat_id, media_id, type, status, error_message, locale, created_at, updated_at
		FROM jobs
		WHERE status = 'in_progress' AND updated_at < $1
		ORDER BY updated_at ASC
	`

	var jobs []*models.Job
	if err := r.db.SelectContext(ctx, &jobs, q, time.Now().Add(-olderThan)); err != nil {
		return nil, fmt.Errorf("job find stuck: %w", err)
	}

	return jobs, nil
}
