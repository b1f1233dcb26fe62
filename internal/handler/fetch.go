package handler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/vetrovs/mediabot/internal/jobs/models"
	"github.com/vetrovs/mediabot/internal/messages"
	"github.com/vetrovs/mediabot/internal/notify"
	"github.com/vetrovs/mediabot/internal/tools"
)

// FetchHandler serves fetch_video and fetch_audio jobs: download the stream,
// send it to the chat, delete the local copy.
type FetchHandler struct {
	base
	fetcher tools.Fetcher
	kind    models.JobType
	dir     string
}

func NewFetchHandler(kind models.JobType, fetcher tools.Fetcher, dir string, notifier notify.Notifier, logger zerolog.Logger, chunkSize int, sendDelay time.Duration) *FetchHandler {
	return &FetchHandler{
		base:    newBase(notifier, logger.With().Str("component", "fetch_handler").Str("kind", string(kind)).Logger(), chunkSize, sendDelay),
		fetcher: fetcher,
		kind:    kind,
		dir:     dir,
	}
}

func (h *FetchHandler) Handle(ctx context.Context, job *models.Job) error {
	var (
		path    string
		err     error
		caption string
	)
	if h.kind == models.FetchVideo {
		path, err = h.fetcher.FetchVideo(ctx, job.MediaID, h.dir, job.MediaID)
		caption = messages.Get("task.completed.video", job.Locale)
	} else {
		path, err = h.fetcher.FetchAudio(ctx, job.MediaID, h.dir, job.MediaID)
		caption = messages.Get("task.completed.audio", job.Locale)
	}

	if errors.Is(err, tools.ErrNotFound) {
		job.Status = models.FailedStatus
		job.ErrorMessage = fmt.Sprintf("%s file not found after download", streamName(h.kind))
		h.notify(ctx, job.ChatID, messages.Get("error.download_failed", job.Locale))
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch %s for %s: %w", streamName(h.kind), job.MediaID, err)
	}

	defer func() {
		if rerr := os.Remove(path); rerr != nil {
			h.logger.Error().Err(rerr).Str("path", path).Msg("could not remove downloaded file")
		}
	}()

	h.sendDocument(ctx, job.ChatID, path, caption)
	job.Status = models.CompletedStatus
	return nil
}

func streamName(kind models.JobType) string {
	if kind == models.FetchVideo {
		return "video"
	}
	return "audio"
}
