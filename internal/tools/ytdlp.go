package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Fetcher downloads media streams for a media id. The returned path points at
// the downloaded file; the caller owns its cleanup.
type Fetcher interface {
	FetchVideo(ctx context.Context, mediaID, dir, name string) (string, error)
	FetchAudio(ctx context.Context, mediaID, dir, name string) (string, error)
}

type YtDlp struct {
	path   string
	runner Runner
	logger zerolog.Logger
}

func NewYtDlp(path string, runner Runner, logger zerolog.Logger) *YtDlp {
	if path == "" {
		path = "yt-dlp"
	}
	return &YtDlp{
		path:   path,
		runner: runner,
		logger: logger.With().Str("component", "ytdlp").Logger(),
	}
}

func (y *YtDlp) FetchVideo(ctx context.Context, mediaID, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	args := []string{
		"--extractor-args", "youtube:player_client=android",
		"-f", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/mp4",
		"-o", filepath.Join(dir, name+".%(ext)s"),
		"--no-warnings",
		watchURL(mediaID),
	}
	if err := y.run(ctx, args); err != nil {
		return "", err
	}

	// yt-dlp decides the extension, so locate the file by its prefix.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("list output dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), name+".") {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: video file for %s", ErrNotFound, mediaID)
}

func (y *YtDlp) FetchAudio(ctx context.Context, mediaID, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	args := []string{
		"--extractor-args", "youtube:player_client=android",
		"-x", "--audio-format", "mp3",
		"-o", filepath.Join(dir, name+".%(ext)s"),
		"--no-warnings",
		watchURL(mediaID),
	}
	if err := y.run(ctx, args); err != nil {
		return "", err
	}

	path := filepath.Join(dir, name+".mp3")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: audio file %s", ErrNotFound, path)
	}
	return path, nil
}

func (y *YtDlp) run(ctx context.Context, args []string) error {
	_, stderr, err := y.runner.Run(ctx, y.path, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: yt-dlp: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: yt-dlp: %v: %s", ErrToolFailure, err, truncateOutput(string(stderr), 512))
	}
	return nil
}

func watchURL(mediaID string) string {
	return "https://www.youtube.com/watch?v=" + mediaID
}
