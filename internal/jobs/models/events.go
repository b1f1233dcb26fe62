package models

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// JobStatusChanged is recorded every time a job reaches a new status. It feeds
// the outbox table and from there the Kafka topic.
type JobStatusChanged struct {
	eventID    uuid.UUID
	jobID      int64
	mediaID    string
	jobType    JobType
	from       Status
	to         Status
	occurredAt time.Time
}

func NewJobStatusChanged(job *Job, from, to Status) *JobStatusChanged {
	return &JobStatusChanged{
		eventID:    uuid.New(),
		jobID:      job.ID,
		mediaID:    job.MediaID,
		jobType:    job.Type,
		from:       from,
		to:         to,
		occurredAt: time.Now(),
	}
}

func (e *JobStatusChanged) EventID() uuid.UUID    { return e.eventID }
func (e *JobStatusChanged) EventType() string     { return "JobStatusChanged" }
func (e *JobStatusChanged) AggregateID() string   { return strconv.FormatInt(e.jobID, 10) }
func (e *JobStatusChanged) OccurredAt() time.Time { return e.occurredAt }

func (e *JobStatusChanged) From() Status { return e.from }
func (e *JobStatusChanged) To() Status   { return e.to }

func (e *JobStatusChanged) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID    uuid.UUID `json:"event_id"`
		JobID      int64     `json:"job_id"`
		MediaID    string    `json:"media_id"`
		JobType    JobType   `json:"job_type"`
		From       Status    `json:"from"`
		To         Status    `json:"to"`
		OccurredAt time.Time `json:"occurred_at"`
	}{
		EventID:    e.eventID,
		JobID:      e.jobID,
		MediaID:    e.mediaID,
		JobType:    e.jobType,
		From:       e.from,
		To:         e.to,
		OccurredAt: e.occurredAt,
	})
}
