package handler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vetrovs/mediabot/internal/jobs/models"
	mediamodels "github.com/vetrovs/mediabot/internal/media/models"
	mediarepo "github.com/vetrovs/mediabot/internal/media/repository"
	"github.com/vetrovs/mediabot/internal/tools"
)

func transcribeFixture(t *testing.T) (*TranscribeHandler, *mediarepo.MemoryRepository, *FetcherMock, *TranscriberMock, *NotifierMock) {
	t.Helper()
	results := mediarepo.NewMemoryRepository()
	fetcher := new(FetcherMock)
	transcriber := new(TranscriberMock)
	notifier := new(NotifierMock)
	h := NewTranscribeHandler(results, fetcher, transcriber, t.TempDir(),
		notifier, zerolog.Nop(), 4000, 0)
	return h, results, fetcher, transcriber, notifier
}

func testJob(typ models.JobType) *models.Job {
	return &models.Job{
		ID:      1,
		ChatID:  42,
		MediaID: "abc123",
		Type:    typ,
		Status:  models.InProgressStatus,
		Locale:  "en",
	}
}

func writeTempAudio(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "temp_abc123.mp3")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))
	return path
}

func TestTranscribeHandle_CacheHitSkipsTools(t *testing.T) {
	ctx := context.Background()
	h, results, fetcher, transcriber, notifier := transcribeFixture(t)

	require.NoError(t, results.Upsert(ctx, &mediamodels.Result{
		MediaID:        "abc123",
		TranscriptText: "cached transcript",
		Language:       "en",
	}))
	notifier.On("SendText", mock.Anything, int64(42), mock.Anything).Return(nil)

	job := testJob(models.Transcribe)
	require.NoError(t, h.Handle(ctx, job))

	assert.Equal(t, models.CompletedStatus, job.Status)
	// A cached transcript must short-circuit the whole pipeline.
	fetcher.AssertNotCalled(t, "FetchAudio", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything)
	notifier.AssertCalled(t, "SendText", mock.Anything, int64(42), mock.MatchedBy(func(text string) bool {
		return text == "📄 Transcript abc123:\n\ncached transcript"
	}))
}

func TestTranscribeHandle_FreshTranscription(t *testing.T) {
	ctx := context.Background()
	h, results, fetcher, transcriber, notifier := transcribeFixture(t)

	audioPath := writeTempAudio(t, h.tempDir)
	fetcher.On("FetchAudio", mock.Anything, "abc123", h.tempDir, "temp_abc123").Return(audioPath, nil).Once()
	transcriber.On("Transcribe", mock.Anything, audioPath).
		Return(tools.Transcription{Text: "hello from the video", Language: "en"}, nil).Once()
	notifier.On("SendText", mock.Anything, int64(42), mock.Anything).Return(nil)

	job := testJob(models.Transcribe)
	require.NoError(t, h.Handle(ctx, job))

	assert.Equal(t, models.CompletedStatus, job.Status)

	saved, err := results.GetByMediaID(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "hello from the video", saved.TranscriptText)
	assert.Equal(t, "en", saved.Language)
	assert.Equal(t, 4, saved.WordCount)

	// The temp audio must not outlive the job.
	_, statErr := os.Stat(audioPath)
	assert.True(t, os.IsNotExist(statErr))

	fetcher.AssertExpectations(t)
	transcriber.AssertExpectations(t)
}

func TestTranscribeHandle_FreshTranscriptClearsStaleNormalized(t *testing.T) {
	ctx := context.Background()
	h, results, fetcher, transcriber, notifier := transcribeFixture(t)

	// A previous run left normalized text but the transcript was wiped.
	require.NoError(t, results.Upsert(ctx, &mediamodels.Result{
		MediaID:        "abc123",
		NormalizedText: "stale normalized",
	}))

	audioPath := writeTempAudio(t, h.tempDir)
	fetcher.On("FetchAudio", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(audioPath, nil)
	transcriber.On("Transcribe", mock.Anything, audioPath).
		Return(tools.Transcription{Text: "new transcript", Language: "en"}, nil)
	notifier.On("SendText", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	job := testJob(models.Transcribe)
	require.NoError(t, h.Handle(ctx, job))

	saved, err := results.GetByMediaID(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "new transcript", saved.TranscriptText)
	assert.Empty(t, saved.NormalizedText)
}

func TestTranscribeHandle_AudioNotFoundFailsInPlace(t *testing.T) {
	ctx := context.Background()
	h, _, fetcher, transcriber, notifier := transcribeFixture(t)

	fetcher.On("FetchAudio", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", tools.ErrNotFound)
	notifier.On("SendText", mock.Anything, int64(42), mock.Anything).Return(nil)

	job := testJob(models.Transcribe)

	// A missing download carries its own diagnostic; the scheduler sees success.
	require.NoError(t, h.Handle(ctx, job))
	assert.Equal(t, models.FailedStatus, job.Status)
	assert.Equal(t, "audio file not found after download", job.ErrorMessage)
	transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything)
	notifier.AssertCalled(t, "SendText", mock.Anything, int64(42),
		"⚠️ Download failed, the media may be unavailable.")
}

func TestTranscribeHandle_TranscriberErrorPropagates(t *testing.T) {
	ctx := context.Background()
	h, _, fetcher, transcriber, _ := transcribeFixture(t)

	audioPath := writeTempAudio(t, h.tempDir)
	fetcher.On("FetchAudio", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(audioPath, nil)
	transcriber.On("Transcribe", mock.Anything, audioPath).
		Return(tools.Transcription{}, errors.New("whisper crashed"))

	job := testJob(models.Transcribe)
	err := h.Handle(ctx, job)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "whisper crashed")
	// The scheduler owns the failure bookkeeping for unexpected errors.
	assert.Equal(t, models.InProgressStatus, job.Status)

	// Cleanup still runs on the error path.
	_, statErr := os.Stat(audioPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTranscribeHandle_ChunksLongTranscript(t *testing.T) {
	ctx := context.Background()
	results := mediarepo.NewMemoryRepository()
	fetcher := new(FetcherMock)
	transcriber := new(TranscriberMock)
	notifier := new(NotifierMock)
	h := NewTranscribeHandler(results, fetcher, transcriber, t.TempDir(),
		notifier, zerolog.Nop(), 40, 0)

	require.NoError(t, results.Upsert(ctx, &mediamodels.Result{
		MediaID:        "abc123",
		TranscriptText: "First sentence here. Second sentence here. Third sentence here.",
	}))

	var sent []string
	notifier.On("SendText", mock.Anything, int64(42), mock.Anything).
		Run(func(args mock.Arguments) { sent = append(sent, args.String(2)) }).
		Return(nil)

	job := testJob(models.Transcribe)
	require.NoError(t, h.Handle(ctx, job))

	require.GreaterOrEqual(t, len(sent), 2)
	for i, msg := range sent {
		assert.Contains(t, msg, fmt.Sprintf("(%d/%d)", i+1, len(sent)))
	}
}
