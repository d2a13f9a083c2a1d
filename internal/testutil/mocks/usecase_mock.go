package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stemsi/mockexam-backend/internal/model"
	"github.com/stemsi/mockexam-backend/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockAttemptUsecase is a mock implementation of handler.AttemptUsecase
type MockAttemptUsecase struct {
	mock.Mock
}

func (m *MockAttemptUsecase) Start(ctx context.Context, userID int, testID uuid.UUID) (*model.StartAttemptResponse, error) {
	args := m.Called(ctx, userID, testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StartAttemptResponse), args.Error(1)
}

func (m *MockAttemptUsecase) SaveDraft(ctx context.Context, userID int, attemptID uuid.UUID, responses []model.Response) error {
	args := m.Called(ctx, userID, attemptID, responses)
	return args.Error(0)
}

func (m *MockAttemptUsecase) GetState(ctx context.Context, userID int, attemptID uuid.UUID) (*model.AttemptState, error) {
	args := m.Called(ctx, userID, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AttemptState), args.Error(1)
}

func (m *MockAttemptUsecase) Submit(ctx context.Context, userID int, attemptID uuid.UUID, responses []model.Response) (*model.GradedResult, error) {
	args := m.Called(ctx, userID, attemptID, responses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GradedResult), args.Error(1)
}

func (m *MockAttemptUsecase) GetResult(ctx context.Context, userID int, attemptID uuid.UUID) (*model.AttemptDetail, error) {
	args := m.Called(ctx, userID, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AttemptDetail), args.Error(1)
}

func (m *MockAttemptUsecase) ListForOwner(ctx context.Context, userID int, opts repository.AttemptListOpts) ([]model.AttemptSummary, error) {
	args := m.Called(ctx, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AttemptSummary), args.Error(1)
}

// MockCatalogReader is a mock implementation of handler.CatalogReader
type MockCatalogReader struct {
	mock.Mock
}

func (m *MockCatalogReader) ListPublishedTests(ctx context.Context) ([]model.Test, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Test), args.Error(1)
}

func (m *MockCatalogReader) GetTest(ctx context.Context, testID uuid.UUID) (*model.Test, error) {
	args := m.Called(ctx, testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Test), args.Error(1)
}

func (m *MockCatalogReader) PaperForTest(ctx context.Context, testID uuid.UUID) (*model.TestPaper, error) {
	args := m.Called(ctx, testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TestPaper), args.Error(1)
}

// MockAuthenticator is a mock implementation of handler.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoginResponse), args.Error(1)
}
