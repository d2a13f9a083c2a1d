package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/mockexam-backend/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockDraftStore is a mock implementation of service.DraftStore and worker.DeadlineQueue
type MockDraftStore struct {
	mock.Mock
}

func (m *MockDraftStore) SaveResponses(ctx context.Context, attemptID uuid.UUID, responses []model.Response) error {
	args := m.Called(ctx, attemptID, responses)
	return args.Error(0)
}

func (m *MockDraftStore) LoadResponses(ctx context.Context, attemptID uuid.UUID) ([]model.Response, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Response), args.Error(1)
}

func (m *MockDraftStore) ScheduleDeadline(ctx context.Context, attemptID uuid.UUID, deadline time.Time) error {
	args := m.Called(ctx, attemptID, deadline)
	return args.Error(0)
}

func (m *MockDraftStore) DueAttempts(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockDraftStore) Clear(ctx context.Context, attemptID uuid.UUID) error {
	args := m.Called(ctx, attemptID)
	return args.Error(0)
}

// MockAutoSubmitter is a mock implementation of worker.AutoSubmitter
type MockAutoSubmitter struct {
	mock.Mock
}

func (m *MockAutoSubmitter) AutoSubmit(ctx context.Context, attemptID uuid.UUID) (*model.GradedResult, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GradedResult), args.Error(1)
}
