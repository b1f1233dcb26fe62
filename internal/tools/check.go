package tools

import (
	"context"
	"fmt"
	"os"
)

// Check verifies every external tool once at startup, before the worker takes
// its first job. The validated adapters are then passed down as constructed
// dependencies; there is no process-wide readiness flag to consult at run
// time.
func Check(ctx context.Context, ytdlp *YtDlp, whisper *Whisper, llama *Llama) error {
	if _, _, err := ytdlp.runner.Run(ctx, ytdlp.path, "--version"); err != nil {
		return fmt.Errorf("yt-dlp not available at %q: %w", ytdlp.path, err)
	}
	if _, err := os.Stat(whisper.path); err != nil {
		return fmt.Errorf("whisper binary not found at %q: %w", whisper.path, err)
	}
	if _, err := os.Stat(whisper.modelPath); err != nil {
		return fmt.Errorf("whisper model not found at %q: %w", whisper.modelPath, err)
	}
	if err := llama.Healthy(ctx); err != nil {
		return fmt.Errorf("llama server not reachable at %q: %w", llama.baseURL, err)
	}
	return nil
}
