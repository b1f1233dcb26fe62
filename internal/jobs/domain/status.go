// Package domain holds the job state machine rules.
package domain

import (
	"fmt"

	"github.com/vetrovs/mediabot/internal/jobs/models"
)

// CanTransition encodes the job state machine. InProgress back to Pending is
// the stuck-job recovery path; the terminal states never transition out.
func CanTransition(from, to models.Status) bool {
	switch from {
	case models.PendingStatus:
		return to == models.InProgressStatus
	case models.InProgressStatus:
		return to == models.CompletedStatus || to == models.FailedStatus || to == models.PendingStatus
	default:
		return false
	}
}

// ValidateTransition allows self-transitions so that saves which only touch
// other fields pass through.
func ValidateTransition(from, to models.Status) error {
	if from == to {
		return nil
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
