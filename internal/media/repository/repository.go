package repository

import (
	"context"

	"github.com/vetrovs/mediabot/internal/media/models"
)

type ResultRepository interface {
	// GetByMediaID returns the cached result for a media id, or
	// models.ErrNotFound.
	GetByMediaID(ctx context.Context, mediaID string) (*models.Result, error)
	// Upsert creates or replaces the result keyed by media id.
	Upsert(ctx context.Context, res *models.Result) error
}
