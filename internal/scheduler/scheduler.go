// Package scheduler runs the single-worker poll loop over the job queue.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vetrovs/mediabot/internal/handler"
	"github.com/vetrovs/mediabot/internal/jobs/models"
	"github.com/vetrovs/mediabot/internal/jobs/repository"
	"github.com/vetrovs/mediabot/internal/messages"
	"github.com/vetrovs/mediabot/internal/notify"
)

// EventSink records job lifecycle events for downstream consumers. Recording
// is best effort: a sink failure is logged and never affects the job.
type EventSink interface {
	Add(ctx context.Context, event models.DomainEvent) error
}

// Scheduler polls the job store on a fixed interval and processes jobs
// strictly one at a time: each tick finishes, including the synchronous
// handler call, before the next one fires. A long job therefore blocks the
// whole queue; that serialization is the design, not an accident.
type Scheduler struct {
	jobs        repository.JobRepository
	registry    *handler.Registry
	notifier    notify.Notifier
	events      EventSink
	interval    time.Duration
	stuckAfter  time.Duration
	onCompleted func(ctx context.Context, job *models.Job)
	clock       func() time.Time
	logger      zerolog.Logger
}

type Config struct {
	Jobs        repository.JobRepository
	Registry    *handler.Registry
	Notifier    notify.Notifier
	Events      EventSink
	Interval    time.Duration
	StuckAfter  time.Duration
	OnCompleted func(ctx context.Context, job *models.Job)
	Logger      zerolog.Logger
}

func New(cfg Config) (*Scheduler, error) {
	if cfg.Jobs == nil {
		return nil, fmt.Errorf("job repository is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("handler registry is required")
	}
	if cfg.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.StuckAfter <= 0 {
		cfg.StuckAfter = time.Hour
	}

	return &Scheduler{
		jobs:        cfg.Jobs,
		registry:    cfg.Registry,
		notifier:    cfg.Notifier,
		events:      cfg.Events,
		interval:    cfg.Interval,
		stuckAfter:  cfg.StuckAfter,
		onCompleted: cfg.OnCompleted,
		clock:       time.Now,
		logger:      cfg.Logger.With().Str("component", "scheduler").Logger(),
	}, nil
}

// Run blocks until the context is cancelled or a fatal configuration error
// (a job type without a registered handler) is hit.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().
		Dur("interval", s.interval).
		Dur("stuck_after", s.stuckAfter).
		Msg("scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Err(ctx.Err()).Msg("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				return err
			}
		}
	}
}

// Tick runs one poll cycle: reset stuck jobs, then take and process the
// oldest pending job, if any. Store errors are transient (the store may not
// be ready yet right after startup); they end the tick and the next interval
// retries.
func (s *Scheduler) Tick(ctx context.Context) error {
	s.resetStuck(ctx)

	job, err := s.jobs.NextPending(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not read job queue, retrying next tick")
		return nil
	}

	return s.process(ctx, job)
}

// resetStuck requeues jobs abandoned in progress past the threshold. This is
// the only crash-recovery mechanism: there is no retry cap, so a
// deterministically hanging job keeps cycling until someone fails it by hand.
func (s *Scheduler) resetStuck(ctx context.Context) {
	stuck, err := s.jobs.FindStuck(ctx, s.stuckAfter)
	if err != nil {
		s.logger.Warn().Err(err).Msg("stuck job scan failed, retrying next tick")
		return
	}

	for _, job := range stuck {
		s.logger.Warn().
			Int64("job_id", job.ID).
			Str("media_id", job.MediaID).
			Time("last_update", job.UpdatedAt).
			Msg("resetting stuck job to pending")

		from := job.Status
		job.Status = models.PendingStatus
		job.UpdatedAt = s.clock()
		if err := s.jobs.Save(ctx, job); err != nil {
			s.logger.Warn().Err(err).Int64("job_id", job.ID).Msg("stuck job reset not saved")
			continue
		}
		s.record(ctx, models.NewJobStatusChanged(job, from, models.PendingStatus))
	}
}

func (s *Scheduler) process(ctx context.Context, job *models.Job) error {
	s.logger.Info().
		Int64("job_id", job.ID).
		Str("type", string(job.Type)).
		Str("media_id", job.MediaID).
		Msg("processing job")

	job.Status = models.InProgressStatus
	job.UpdatedAt = s.clock()
	if err := s.jobs.Save(ctx, job); err != nil {
		s.logger.Warn().Err(err).Int64("job_id", job.ID).Msg("could not claim job, retrying next tick")
		return nil
	}

	h, ok := s.registry.Resolve(job.Type)
	if !ok {
		// Deployment defect, not a runtime condition: fail loudly.
		return fmt.Errorf("no handler registered for job type %q", job.Type)
	}

	if err := h.Handle(ctx, job); err != nil {
		s.logger.Error().Err(err).Int64("job_id", job.ID).Msg("job failed")
		job.Status = models.FailedStatus
		job.ErrorMessage = models.TruncateError(err.Error())
		s.notifyFailure(ctx, job)
	}

	job.UpdatedAt = s.clock()
	if err := s.jobs.Save(ctx, job); err != nil {
		s.logger.Error().Err(err).Int64("job_id", job.ID).Msg("terminal status not saved")
		return nil
	}
	s.record(ctx, models.NewJobStatusChanged(job, models.InProgressStatus, job.Status))

	if job.Status == models.CompletedStatus && s.onCompleted != nil {
		s.onCompleted(ctx, job)
	}
	return nil
}

func (s *Scheduler) notifyFailure(ctx context.Context, job *models.Job) {
	text := messages.Get("common.error", job.Locale) + " " + job.ErrorMessage
	if err := s.notifier.SendText(ctx, job.ChatID, text); err != nil {
		s.logger.Error().Err(err).Int64("chat_id", job.ChatID).Msg("failure notification not delivered")
	}
}

func (s *Scheduler) record(ctx context.Context, event models.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Add(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("event_type", event.EventType()).Msg("event not recorded")
	}
}
