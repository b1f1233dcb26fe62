package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vetrovs/mediabot/internal/jobs/models"
	mediamodels "github.com/vetrovs/mediabot/internal/media/models"
	mediarepo "github.com/vetrovs/mediabot/internal/media/repository"
	"github.com/vetrovs/mediabot/internal/messages"
	"github.com/vetrovs/mediabot/internal/notify"
	"github.com/vetrovs/mediabot/internal/tools"
)

// NormalizeHandler serves normalize jobs: cache-first on the normalized text,
// transcribing first when no transcript exists yet.
type NormalizeHandler struct {
	base
	results    mediarepo.ResultRepository
	normalizer tools.Normalizer
	transcribe *TranscribeHandler
}

func NewNormalizeHandler(results mediarepo.ResultRepository, normalizer tools.Normalizer, transcribe *TranscribeHandler, notifier notify.Notifier, logger zerolog.Logger, chunkSize int, sendDelay time.Duration) *NormalizeHandler {
	return &NormalizeHandler{
		base:       newBase(notifier, logger.With().Str("component", "normalize_handler").Logger(), chunkSize, sendDelay),
		results:    results,
		normalizer: normalizer,
		transcribe: transcribe,
	}
}

func (h *NormalizeHandler) Handle(ctx context.Context, job *models.Job) error {
	res, err := h.results.GetByMediaID(ctx, job.MediaID)
	if err != nil && !errors.Is(err, mediamodels.ErrNotFound) {
		return fmt.Errorf("result lookup for %s: %w", job.MediaID, err)
	}
	if err == nil && res.NormalizedText != "" {
		h.logger.Info().Str("media_id", job.MediaID).Msg("normalized text cache hit")
		h.sendChunked(ctx, job, messages.Get("label.normalized", job.Locale), res.NormalizedText)
		job.Status = models.CompletedStatus
		return nil
	}

	if err != nil || res.TranscriptText == "" {
		h.notify(ctx, job.ChatID, messages.Get("common.transcribing", job.Locale))
		res, err = h.transcribe.performTranscription(ctx, job)
		if err != nil {
			return err
		}
		if res == nil {
			return nil
		}
	}

	normalized, err := h.normalizer.Normalize(ctx, res.TranscriptText, res.Language)
	if errors.Is(err, tools.ErrEmptyResult) {
		h.fail(ctx, job, "normalization returned empty result")
		return nil
	}
	if err != nil {
		return fmt.Errorf("normalize %s: %w", job.MediaID, err)
	}

	res.NormalizedText = normalized
	if err := h.results.Upsert(ctx, res); err != nil {
		return fmt.Errorf("save normalized text for %s: %w", job.MediaID, err)
	}
	h.logger.Info().Str("media_id", job.MediaID).Msg("normalized text saved")

	h.sendChunked(ctx, job, messages.Get("label.normalized", job.Locale), normalized)
	job.Status = models.CompletedStatus
	return nil
}
