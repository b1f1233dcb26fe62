package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Normalizer rewrites a raw transcript into corrected text without changing
// its language or meaning.
type Normalizer interface {
	Normalize(ctx context.Context, text, language string) (string, error)
}

type Llama struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

func NewLlama(baseURL string, timeout time.Duration, logger zerolog.Logger) *Llama {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Llama{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "llama").Logger(),
	}
}

const normalizationPrompt = `You are a text corrector. Normalize and fix the input text.

RULES:
1. Keep the text in its original language (%s) - never translate it
2. Fix ONLY grammar, spelling, punctuation and word agreement
3. Stay as close to the original as possible - do not rephrase or rewrite
4. Output ONLY the corrected text, no explanations or comments
5. Preserve the original meaning exactly

Input text:
%s

Corrected text:
`

type completionRequest struct {
	Prompt      string  `json:"prompt"`
	NPredict    int     `json:"n_predict"`
	Temperature float64 `json:"temperature"`
	Stream      bool    `json:"stream"`
}

type completionResponse struct {
	Content string `json:"content"`
}

func (l *Llama) Normalize(ctx context.Context, text, language string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Prompt:      fmt.Sprintf(normalizationPrompt, language, text),
		NPredict:    -1,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/completion", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: llama: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: llama request: %v", ErrToolFailure, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	l.logger.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(raw)).
		Dur("elapsed", time.Since(start)).
		Msg("completion response")

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("%w: llama returned status %d", ErrToolFailure, resp.StatusCode)
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: decode completion response: %v", ErrToolFailure, err)
	}

	normalized := strings.TrimSpace(out.Content)
	if normalized == "" {
		return "", fmt.Errorf("%w: llama returned no content", ErrEmptyResult)
	}
	return normalized, nil
}

// Healthy reports whether the inference server answers its health endpoint.
func (l *Llama) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("llama health: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("llama health: status %d", resp.StatusCode)
	}
	return nil
}
