package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stemsi/mockexam-backend/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockCatalog is a mock implementation of service.Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) QuestionsForTest(ctx context.Context, testID uuid.UUID) ([]model.Question, error) {
	args := m.Called(ctx, testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}

// MockTestFinder is a mock implementation of service.TestFinder
type MockTestFinder struct {
	mock.Mock
}

func (m *MockTestFinder) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Test), args.Error(1)
}

// MockUserFinder is a mock implementation of service.UserFinder
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
