package handler

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/vetrovs/mediabot/internal/jobs/models"
	mediamodels "github.com/vetrovs/mediabot/internal/media/models"
	mediarepo "github.com/vetrovs/mediabot/internal/media/repository"
	"github.com/vetrovs/mediabot/internal/messages"
	"github.com/vetrovs/mediabot/internal/notify"
	"github.com/vetrovs/mediabot/internal/tools"
)

// BundleHandler serves full_bundle jobs: fresh video and audio downloads,
// cache-first transcript and normalized text, everything packed into one zip.
// Media files are never cached between runs, so both streams are always
// re-fetched; the transcript pipeline reuses the audio downloaded here.
type BundleHandler struct {
	base
	results    mediarepo.ResultRepository
	fetcher    tools.Fetcher
	normalizer tools.Normalizer
	transcribe *TranscribeHandler
	tempDir    string
}

func NewBundleHandler(results mediarepo.ResultRepository, fetcher tools.Fetcher, normalizer tools.Normalizer, transcribe *TranscribeHandler, tempDir string, notifier notify.Notifier, logger zerolog.Logger, chunkSize int, sendDelay time.Duration) *BundleHandler {
	return &BundleHandler{
		base:       newBase(notifier, logger.With().Str("component", "bundle_handler").Logger(), chunkSize, sendDelay),
		results:    results,
		fetcher:    fetcher,
		normalizer: normalizer,
		transcribe: transcribe,
		tempDir:    tempDir,
	}
}

func (h *BundleHandler) Handle(ctx context.Context, job *models.Job) error {
	dir, err := os.MkdirTemp(h.tempDir, "bundle_"+job.MediaID+"_")
	if err != nil {
		return fmt.Errorf("create working dir: %w", err)
	}
	// The whole working tree goes away on every exit path; jobs share one
	// filesystem and leftovers from a failed run would leak into the next.
	defer func() {
		if rerr := os.RemoveAll(dir); rerr != nil {
			h.logger.Warn().Err(rerr).Str("dir", dir).Msg("could not clean working dir")
		}
	}()

	h.notify(ctx, job.ChatID, messages.Get("common.downloading", job.Locale))
	videoPath, err := h.fetcher.FetchVideo(ctx, job.MediaID, dir, "video")
	if err != nil {
		return fmt.Errorf("fetch video for %s: %w", job.MediaID, err)
	}
	audioPath, err := h.fetcher.FetchAudio(ctx, job.MediaID, dir, "audio")
	if err != nil {
		return fmt.Errorf("fetch audio for %s: %w", job.MediaID, err)
	}

	h.notify(ctx, job.ChatID, messages.Get("common.transcribing", job.Locale))
	res, err := h.results.GetByMediaID(ctx, job.MediaID)
	if err != nil && !errors.Is(err, mediamodels.ErrNotFound) {
		return fmt.Errorf("result lookup for %s: %w", job.MediaID, err)
	}
	if err != nil || res.TranscriptText == "" {
		res, err = h.transcribe.transcribeFile(ctx, job, audioPath)
		if err != nil {
			return err
		}
	}

	h.notify(ctx, job.ChatID, messages.Get("common.normalizing", job.Locale))
	if res.NormalizedText == "" {
		normalized, err := h.normalizer.Normalize(ctx, res.TranscriptText, res.Language)
		if err != nil {
			return fmt.Errorf("normalize %s: %w", job.MediaID, err)
		}
		res.NormalizedText = normalized
		if err := h.results.Upsert(ctx, res); err != nil {
			return fmt.Errorf("save normalized text for %s: %w", job.MediaID, err)
		}
	}

	transcriptPath := filepath.Join(dir, "transcript.txt")
	if err := os.WriteFile(transcriptPath, []byte(res.TranscriptText), 0o644); err != nil {
		return fmt.Errorf("write transcript file: %w", err)
	}
	normalizedPath := filepath.Join(dir, "normalized.txt")
	if err := os.WriteFile(normalizedPath, []byte(res.NormalizedText), 0o644); err != nil {
		return fmt.Errorf("write normalized file: %w", err)
	}

	h.notify(ctx, job.ChatID, messages.Get("common.packing", job.Locale))
	zipPath := filepath.Join(dir, job.MediaID+".zip")
	if err := buildZip(zipPath, []string{videoPath, audioPath, transcriptPath, normalizedPath}); err != nil {
		return fmt.Errorf("pack archive: %w", err)
	}

	h.notify(ctx, job.ChatID, messages.Get("common.sending", job.Locale))
	h.sendDocument(ctx, job.ChatID, zipPath, messages.Get("task.completed.bundle", job.Locale))

	job.Status = models.CompletedStatus
	h.logger.Info().Str("media_id", job.MediaID).Msg("bundle completed")
	return nil
}

func buildZip(zipPath string, files []string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, path := range files {
		if err := addToZip(zw, path); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return nil
}

func addToZip(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", filepath.Base(path), err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("write archive entry %s: %w", filepath.Base(path), err)
	}
	return nil
}
