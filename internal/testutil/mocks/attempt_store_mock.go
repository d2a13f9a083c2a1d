package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stemsi/mockexam-backend/internal/model"
	"github.com/stemsi/mockexam-backend/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockAttemptStore is a mock implementation of service.AttemptStore
type MockAttemptStore struct {
	mock.Mock
}

func (m *MockAttemptStore) Create(ctx context.Context, a *model.Attempt) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAttemptStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attempt), args.Error(1)
}

func (m *MockAttemptStore) GetDetail(ctx context.Context, id uuid.UUID) (*model.AttemptDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AttemptDetail), args.Error(1)
}

func (m *MockAttemptStore) ListByOwner(ctx context.Context, userID int, opts repository.AttemptListOpts) ([]model.AttemptSummary, error) {
	args := m.Called(ctx, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AttemptSummary), args.Error(1)
}

func (m *MockAttemptStore) Transition(ctx context.Context, id uuid.UUID, from, to model.AttemptStatus, outcome *model.AttemptOutcome) (bool, error) {
	args := m.Called(ctx, id, from, to, outcome)
	return args.Bool(0), args.Error(1)
}
