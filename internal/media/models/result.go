package models

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid arguments")
)

// Result holds the derived artifacts cached per media identity. It is the
// memoization layer in front of the expensive external tools: under normal
// operation each media id is transcribed and normalized at most once.
type Result struct {
	ID             int64     `db:"id"`
	MediaID        string    `db:"media_id"`
	TranscriptText string    `db:"transcript_text"`
	Language       string    `db:"language"`
	NormalizedText string    `db:"normalized_text"`
	WordCount      int       `db:"word_count"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
