package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vetrovs/mediabot/internal/media/models"
)

type ResultRepo struct {
	db *sqlx.DB
}

func NewResultRepo(db *sqlx.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

func (r *ResultRepo) GetByMediaID(ctx context.Context, mediaID string) (*models.Result, error) {
	const q = `
		SELECT id, media_id, transcript_text, language, normalized_text, word_count, created_at, updated_at
		FROM media_results
		WHERE media_id = $1
	`

	var res models.Result
	if err := r.db.GetContext(ctx, &res, q, mediaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("result get by media id: %w", err)
	}

	return &res, nil
}

func (r *ResultRepo) Upsert(ctx context.Context, res *models.Result) error {
	const q = `
		INSERT INTO media_results (media_id, transcript_text, language, normalized_text, word_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (media_id) DO UPDATE SET
			transcript_text = EXCLUDED.transcript_text,
			language = EXCLUDED.language,
			normalized_text = EXCLUDED.normalized_text,
			word_count = EXCLUDED.word_count,
			updated_at = NOW()
		RETURNING id
	`
	if err := r.db.GetContext(ctx, &res.ID, q,
		res.MediaID, res.TranscriptText, res.Language, res.NormalizedText, res.WordCount,
	); err != nil {
		return fmt.Errorf("result upsert: %w", err)
	}
	return nil
}
