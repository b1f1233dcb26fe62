// Package handler binds each job type to the strategy that executes it.
package handler

import (
	"context"

	"github.com/vetrovs/mediabot/internal/jobs/models"
)

// Handler executes one job type end to end: tool calls, cache reads and
// writes, progress messages and local cleanup. It sets the job's terminal
// status before returning; a returned error is the scheduler's signal to mark
// the job failed with a generic diagnostic.
type Handler interface {
	Handle(ctx context.Context, job *models.Job) error
}

// Registry is a fixed mapping from job type to handler. The job-type set is
// closed, so dispatch is a direct lookup; an unknown type is a deployment
// defect the scheduler turns into a fatal error.
type Registry struct {
	handlers map[models.JobType]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[models.JobType]Handler)}
}

func (r *Registry) Register(t models.JobType, h Handler) {
	r.handlers[t] = h
}

func (r *Registry) Resolve(t models.JobType) (Handler, bool) {
	h, ok := r.handlers[t]
	return h, ok
}
