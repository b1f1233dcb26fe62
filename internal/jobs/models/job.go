package models

import (
	"regexp"
	"strings"
	"time"
)

type Status string

const (
	PendingStatus    Status = "pending"
	InProgressStatus Status = "in_progress"
	CompletedStatus  Status = "completed"
	FailedStatus     Status = "failed"
)

type JobType string

const (
	FetchVideo JobType = "fetch_video"
	FetchAudio JobType = "fetch_audio"
	Transcribe JobType = "transcribe"
	Normalize  JobType = "normalize"
	FullBundle JobType = "full_bundle"
)

// Job is one unit of requested processing work. Jobs are created in pending
// state by the intake side, mutated only by the scheduler worker and kept
// forever as an audit trail.
type Job struct {
	ID           int64     `db:"id"`
	ChatID       int64     `db:"chat_id"`
	MediaID      string    `db:"media_id"`
	Type         JobType   `db:"type"`
	Status       Status    `db:"status"`
	ErrorMessage string    `db:"error_message"`
	Locale       string    `db:"locale"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const maxErrorLength = 500

var whitespaceRun = regexp.MustCompile(`\s+`)

// TruncateError caps an error message so it is safe to store and to show in a
// single chat message: at most the first 500 characters plus an ellipsis, all
// whitespace runs (including newlines) collapsed to single spaces.
func TruncateError(msg string) string {
	if msg == "" {
		return "unknown error"
	}
	if runes := []rune(msg); len(runes) > maxErrorLength {
		msg = string(runes[:maxErrorLength]) + "..."
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(msg, " "))
}
