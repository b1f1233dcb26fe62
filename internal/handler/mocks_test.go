package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vetrovs/mediabot/internal/tools"
)

type FetcherMock struct {
	mock.Mock
}

func (m *FetcherMock) FetchVideo(ctx context.Context, mediaID, dir, name string) (string, error) {
	args := m.Called(ctx, mediaID, dir, name)
	return args.String(0), args.Error(1)
}

func (m *FetcherMock) FetchAudio(ctx context.Context, mediaID, dir, name string) (string, error) {
	args := m.Called(ctx, mediaID, dir, name)
	return args.String(0), args.Error(1)
}

type TranscriberMock struct {
	mock.Mock
}

func (m *TranscriberMock) Transcribe(ctx context.Context, audioPath string) (tools.Transcription, error) {
	args := m.Called(ctx, audioPath)
	return args.Get(0).(tools.Transcription), args.Error(1)
}

type NormalizerMock struct {
	mock.Mock
}

func (m *NormalizerMock) Normalize(ctx context.Context, text, language string) (string, error) {
	args := m.Called(ctx, text, language)
	return args.String(0), args.Error(1)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) SendText(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

func (m *NotifierMock) SendFile(ctx context.Context, chatID int64, path, caption string) error {
	args := m.Called(ctx, chatID, path, caption)
	return args.Error(0)
}
