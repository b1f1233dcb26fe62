package scheduler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vetrovs/mediabot/internal/jobs/models"
)

type JobsMock struct {
	mock.Mock
}

func (m *JobsMock) Enqueue(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *JobsMock) NextPending(ctx context.Context) (*models.Job, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*models.Job), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *JobsMock) Save(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *JobsMock) FindStuck(ctx context.Context, olderThan time.Duration) ([]*models.Job, error) {
	args := m.Called(ctx, olderThan)
	if v := args.Get(0); v != nil {
		return v.([]*models.Job), args.Error(1)
	}
	return nil, args.Error(1)
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

type EventsMock struct {
	mock.Mock
}

func (m *EventsMock) Add(ctx context.Context, event models.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// handlerStub lets a test script the handler outcome directly.
type handlerStub struct {
	fn func(ctx context.Context, job *models.Job) error
}

func (h *handlerStub) Handle(ctx context.Context, job *models.Job) error {
	return h.fn(ctx, job)
}
