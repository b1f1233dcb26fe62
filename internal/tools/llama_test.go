package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLlamaNormalize_Success(t *testing.T) {
	ctx := context.Background()

	var gotReq completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/completion", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(completionResponse{Content: "  Corrected text.  \n"})
	}))
	defer srv.Close()

	l := NewLlama(srv.URL, time.Minute, zerolog.Nop())

	got, err := l.Normalize(ctx, "raw transcirpt txt", "en")

	require.NoError(t, err)
	assert.Equal(t, "Corrected text.", got)

	// The prompt must carry both the detected language and the raw text.
	assert.Contains(t, gotReq.Prompt, "original language (en)")
	assert.Contains(t, gotReq.Prompt, "raw transcirpt txt")
	assert.Equal(t, -1, gotReq.NPredict)
	assert.InDelta(t, 0.2, gotReq.Temperature, 0.001)
}

func TestLlamaNormalize_EmptyContent(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionResponse{Content: "   "})
	}))
	defer srv.Close()

	l := NewLlama(srv.URL, time.Minute, zerolog.Nop())

	_, err := l.Normalize(ctx, "text", "en")

	require.ErrorIs(t, err, ErrEmptyResult)
}

func TestLlamaNormalize_ServerError(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := NewLlama(srv.URL, time.Minute, zerolog.Nop())

	_, err := l.Normalize(ctx, "text", "en")

	require.ErrorIs(t, err, ErrToolFailure)
}

func TestLlamaNormalize_Unreachable(t *testing.T) {
	ctx := context.Background()

	l := NewLlama("http://127.0.0.1:1", time.Second, zerolog.Nop())

	_, err := l.Normalize(ctx, "text", "en")

	require.ErrorIs(t, err, ErrToolFailure)
}

func TestLlamaHealthy(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.NoError(t, NewLlama(srv.URL, time.Minute, zerolog.Nop()).Healthy(ctx))
}

func TestLlamaHealthy_BadStatus(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	require.Error(t, NewLlama(srv.URL, time.Minute, zerolog.Nop()).Healthy(ctx))
}
