package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

type Transcription struct {
	Text     string
	Language string
}

// Transcriber converts an audio file into text plus the detected language.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (Transcription, error)
}

type Whisper struct {
	path      string
	modelPath string
	threads   int
	runner    Runner
	logger    zerolog.Logger
}

func NewWhisper(path, modelPath string, threads int, runner Runner, logger zerolog.Logger) *Whisper {
	if threads <= 0 {
		threads = 4
	}
	return &Whisper{
		path:      path,
		modelPath: modelPath,
		threads:   threads,
		runner:    runner,
		logger:    logger.With().Str("component", "whisper").Logger(),
	}
}

func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (Transcription, error) {
	base, err := outputBase()
	if err != nil {
		return Transcription{}, err
	}
	jsonPath := base + ".json"
	txtPath := base + ".txt"
	defer os.Remove(jsonPath)
	defer os.Remove(txtPath)

	args := []string{
		"-m", w.modelPath,
		"-f", audioPath,
		"-of", base,
		"--output-txt",
		"-oj",
		"--threads", strconv.Itoa(w.threads),
		"-ng",
		"--language", "auto",
	}
	if _, stderr, err := w.runner.Run(ctx, w.path, args...); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Transcription{}, fmt.Errorf("%w: whisper: %v", ErrTimeout, err)
		}
		return Transcription{}, fmt.Errorf("%w: whisper: %v: %s", ErrToolFailure, err, truncateOutput(string(stderr), 512))
	}

	if data, err := os.ReadFile(jsonPath); err == nil {
		tr, perr := parseWhisperJSON(data)
		if perr == nil {
			return tr, nil
		}
		w.logger.Warn().Err(perr).Msg("json output unusable, falling back to plain text")
	}

	// Fallback path: whisper always writes the bare transcript next to the
	// json file, but it carries no language information.
	data, err := os.ReadFile(txtPath)
	if err != nil {
		return Transcription{}, fmt.Errorf("%w: whisper produced no readable output", ErrToolFailure)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return Transcription{}, fmt.Errorf("%w: whisper transcript is empty", ErrEmptyResult)
	}
	return Transcription{Text: text, Language: "unknown"}, nil
}

// whisperOutput is the subset of the whisper-cli json schema the adapter
// relies on.
type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Text string `json:"text"`
	} `json:"transcription"`
}

func parseWhisperJSON(data []byte) (Transcription, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Transcription{}, fmt.Errorf("decode whisper json: %w", err)
	}

	segments := make([]string, 0, len(out.Transcription))
	for _, seg := range out.Transcription {
		if s := strings.TrimSpace(seg.Text); s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return Transcription{}, fmt.Errorf("whisper json has no transcription segments")
	}

	lang := out.Result.Language
	if lang == "" {
		lang = "unknown"
	}
	return Transcription{Text: strings.Join(segments, " "), Language: lang}, nil
}

// outputBase reserves a unique base path for whisper's output files.
func outputBase() (string, error) {
	f, err := os.CreateTemp("", "whisper_out_")
	if err != nil {
		return "", fmt.Errorf("create temp output base: %w", err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return name, nil
}
