package repository

import (
	"context"
	"sync"

	"github.com/vetrovs/mediabot/internal/media/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	data   map[string]*models.Result
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		data:   make(map[string]*models.Result),
		nextID: 1,
	}
}

func (r *MemoryRepository) GetByMediaID(ctx context.Context, mediaID string) (*models.Result, error) {
	if mediaID == "" {
		return nil, models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.data[mediaID]
	if !ok {
		return nil, models.ErrNotFound
	}

	cp := *res
	return &cp, nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, res *models.Result) error {
	if res == nil || res.MediaID == "" {
		return models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.data[res.MediaID]; ok {
		res.ID = existing.ID
	} else {
		res.ID = r.nextID
		r.nextID++
	}

	cp := *res
	r.data[res.MediaID] = &cp

	return nil
}
