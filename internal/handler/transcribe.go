package handler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vetrovs/mediabot/internal/jobs/models"
	mediamodels "github.com/vetrovs/mediabot/internal/media/models"
	mediarepo "github.com/vetrovs/mediabot/internal/media/repository"
	"github.com/vetrovs/mediabot/internal/messages"
	"github.com/vetrovs/mediabot/internal/notify"
	"github.com/vetrovs/mediabot/internal/tools"
)

// TranscribeHandler serves transcribe jobs and owns the shared transcription
// pipeline the normalize and bundle handlers reuse.
type TranscribeHandler struct {
	base
	results     mediarepo.ResultRepository
	fetcher     tools.Fetcher
	transcriber tools.Transcriber
	tempDir     string
}

func NewTranscribeHandler(results mediarepo.ResultRepository, fetcher tools.Fetcher, transcriber tools.Transcriber, tempDir string, notifier notify.Notifier, logger zerolog.Logger, chunkSize int, sendDelay time.Duration) *TranscribeHandler {
	return &TranscribeHandler{
		base:        newBase(notifier, logger.With().Str("component", "transcribe_handler").Logger(), chunkSize, sendDelay),
		results:     results,
		fetcher:     fetcher,
		transcriber: transcriber,
		tempDir:     tempDir,
	}
}

func (h *TranscribeHandler) Handle(ctx context.Context, job *models.Job) error {
	res, err := h.results.GetByMediaID(ctx, job.MediaID)
	if err != nil && !errors.Is(err, mediamodels.ErrNotFound) {
		return fmt.Errorf("result lookup for %s: %w", job.MediaID, err)
	}
	if err == nil && res.TranscriptText != "" {
		h.logger.Info().Str("media_id", job.MediaID).Msg("transcript cache hit")
		h.sendChunked(ctx, job, messages.Get("label.transcript", job.Locale), res.TranscriptText)
		job.Status = models.CompletedStatus
		return nil
	}

	res, err = h.performTranscription(ctx, job)
	if err != nil {
		return err
	}
	if res == nil {
		// The failure was already reported with a specific diagnostic.
		return nil
	}

	h.sendChunked(ctx, job, messages.Get("label.transcript", job.Locale), res.TranscriptText)
	job.Status = models.CompletedStatus
	return nil
}

// performTranscription downloads the audio to a temporary location, runs the
// speech-to-text tool and persists the outcome. The temp audio is removed on
// every exit path. A nil result with nil error means the job was failed in
// place with a specific diagnostic.
func (h *TranscribeHandler) performTranscription(ctx context.Context, job *models.Job) (*mediamodels.Result, error) {
	audioPath, err := h.fetcher.FetchAudio(ctx, job.MediaID, h.tempDir, "temp_"+job.MediaID)
	if errors.Is(err, tools.ErrNotFound) {
		job.Status = models.FailedStatus
		job.ErrorMessage = "audio file not found after download"
		h.notify(ctx, job.ChatID, messages.Get("error.download_failed", job.Locale))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch audio for %s: %w", job.MediaID, err)
	}

	defer func() {
		if rerr := os.Remove(audioPath); rerr != nil && !os.IsNotExist(rerr) {
			h.logger.Warn().Err(rerr).Str("path", audioPath).Msg("could not remove temp audio")
		}
	}()

	return h.transcribeFile(ctx, job, audioPath)
}

// transcribeFile runs speech-to-text on an already downloaded audio file and
// persists the result. The caller owns the audio file.
func (h *TranscribeHandler) transcribeFile(ctx context.Context, job *models.Job, audioPath string) (*mediamodels.Result, error) {
	h.logger.Info().Str("media_id", job.MediaID).Msg("starting transcription with language detection")

	tr, err := h.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", job.MediaID, err)
	}

	return h.saveResult(ctx, job.MediaID, tr)
}

// saveResult writes a fresh transcript into the cache. A new transcript makes
// any previously stored normalized text stale, so it is cleared here rather
// than served later against the wrong transcript.
func (h *TranscribeHandler) saveResult(ctx context.Context, mediaID string, tr tools.Transcription) (*mediamodels.Result, error) {
	res, err := h.results.GetByMediaID(ctx, mediaID)
	if errors.Is(err, mediamodels.ErrNotFound) {
		res = &mediamodels.Result{MediaID: mediaID}
	} else if err != nil {
		return nil, fmt.Errorf("result lookup for %s: %w", mediaID, err)
	}

	res.TranscriptText = tr.Text
	res.Language = tr.Language
	res.WordCount = len(strings.Fields(tr.Text))
	res.NormalizedText = ""

	if err := h.results.Upsert(ctx, res); err != nil {
		return nil, fmt.Errorf("save result for %s: %w", mediaID, err)
	}
	h.logger.Info().Str("media_id", mediaID).Int("word_count", res.WordCount).Str("language", res.Language).Msg("transcript saved")
	return res, nil
}
