package repository

import (
	"context"
	"sync"
	"time"

	"github.com/vetrovs/mediabot/internal/jobs/domain"
	"github.com/vetrovs/mediabot/internal/jobs/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	data   map[int64]*models.Job
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		data:   make(map[int64]*models.Job),
		nextID: 1,
	}
}

func (r *MemoryRepository) Enqueue(ctx context.Context, job *models.Job) error {
	if job == nil || job.MediaID == "" || job.Type == "" {
		return models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.data {
		if existing.MediaID == job.MediaID && existing.Type == job.Type &&
			(existing.Status == models.PendingStatus || existing.Status == models.InProgressStatus) {
			return models.ErrConflict
		}
	}

	job.ID = r.nextID
	r.nextID++

	cp := *job
	r.data[job.ID] = &cp

	return nil
}

func (r *MemoryRepository) NextPending(ctx context.Context) (*models.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var oldest *models.Job
	for _, job := range r.data {
		if job.Status != models.PendingStatus {
			continue
		}
		if oldest == nil || job.CreatedAt.Before(oldest.CreatedAt) {
			oldest = job
		}
	}
	if oldest == nil {
		return nil, models.ErrNotFound
	}

	cp := *oldest
	return &cp, nil
}

func (r *MemoryRepository) Save(ctx context.Context, job *models.Job) error {
	if job == nil || job.ID == 0 {
		return models.ErrInvalidArgument
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.data[job.ID]; ok {
		if err := domain.ValidateTransition(existing.Status, job.Status); err != nil {
			return err
		}
	}

	cp := *job
	r.data[job.ID] = &cp

	return nil
}

func (r *MemoryRepository) FindStuck(ctx context.Context, olderThan time.Duration) ([]*models.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-olderThan)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var stuck []*models.Job
	for _, job := range r.data {
		if job.Status == models.InProgressStatus && job.UpdatedAt.Before(cutoff) {
			cp := *job
			stuck = append(stuck, &cp)
		}
	}
	return stuck, nil
}
