package repository

import (
	"context"
	"time"

	"github.com/vetrovs/mediabot/internal/jobs/models"
)

// JobRepository is the durable work queue. Access is single-writer: only the
// scheduler worker mutates a job after it leaves pending.
type JobRepository interface {
	// Enqueue persists a new pending job and assigns its id. A second active
	// job for the same (media_id, type) pair is rejected with ErrConflict.
	Enqueue(ctx context.Context, job *models.Job) error
	// NextPending returns the oldest pending job by creation time, or
	// models.ErrNotFound when the queue is empty.
	NextPending(ctx context.Context) (*models.Job, error)
	// Save upserts a job by id.
	Save(ctx context.Context, job *models.Job) error
	// FindStuck returns in-progress jobs whose updated_at predates
	// now minus olderThan.
	FindStuck(ctx context.Context, olderThan time.Duration) ([]*models.Job, error)
}
