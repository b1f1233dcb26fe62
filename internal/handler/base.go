package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vetrovs/mediabot/internal/chunker"
	"github.com/vetrovs/mediabot/internal/jobs/models"
	"github.com/vetrovs/mediabot/internal/messages"
	"github.com/vetrovs/mediabot/internal/notify"
)

// base carries the collaborators every handler shares and the delivery
// helpers built on them.
type base struct {
	notifier  notify.Notifier
	logger    zerolog.Logger
	chunkSize int
	sendDelay time.Duration
}

func newBase(notifier notify.Notifier, logger zerolog.Logger, chunkSize int, sendDelay time.Duration) base {
	if chunkSize <= 0 {
		chunkSize = 4000
	}
	return base{
		notifier:  notifier,
		logger:    logger,
		chunkSize: chunkSize,
		sendDelay: sendDelay,
	}
}

// fail marks the job failed with an explicit domain diagnostic and tells the
// user. Used when the handler can name the cause; unexpected errors propagate
// to the scheduler instead.
func (b *base) fail(ctx context.Context, job *models.Job, diagnostic string) {
	b.logger.Error().Int64("job_id", job.ID).Str("media_id", job.MediaID).Msg(diagnostic)
	job.Status = models.FailedStatus
	job.ErrorMessage = models.TruncateError(diagnostic)
	b.notify(ctx, job.ChatID, messages.Get("common.error", job.Locale)+" "+job.ErrorMessage)
}

// notify sends a text message and only logs delivery failures.
func (b *base) notify(ctx context.Context, chatID int64, text string) {
	if err := b.notifier.SendText(ctx, chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("message not delivered")
	}
}

// sendDocument sends a file and only logs delivery failures.
func (b *base) sendDocument(ctx context.Context, chatID int64, path, caption string) {
	if err := b.notifier.SendFile(ctx, chatID, path, caption); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Str("path", path).Msg("document not delivered")
	}
}

// sendChunked delivers long text as a sequence of bounded messages, each
// labeled with its position, pausing between sends to stay under the chat
// rate limits.
func (b *base) sendChunked(ctx context.Context, job *models.Job, label, text string) {
	parts := chunker.Split(text, b.chunkSize)
	if len(parts) == 1 {
		b.notify(ctx, job.ChatID, fmt.Sprintf("%s %s:\n\n%s", label, job.MediaID, parts[0]))
		return
	}
	for i, part := range parts {
		b.notify(ctx, job.ChatID, fmt.Sprintf("%s (%d/%d):\n\n%s", label, i+1, len(parts), part))
		if i < len(parts)-1 && b.sendDelay > 0 {
			time.Sleep(b.sendDelay)
		}
	}
}
