package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/mockexam-backend/internal/model"
	"github.com/stemsi/mockexam-backend/internal/repository"
)

// AttemptStore persists attempts. Implemented by repository.AttemptRepository.
type AttemptStore interface {
	Create(ctx context.Context, a *model.Attempt) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*model.AttemptDetail, error)
	ListByOwner(ctx context.Context, userID int, opts repository.AttemptListOpts) ([]model.AttemptSummary, error)
	Transition(ctx context.Context, id uuid.UUID, from, to model.AttemptStatus, outcome *model.AttemptOutcome) (bool, error)
}

// Catalog provides the scoreable questions of a test. Implemented by CatalogService.
type Catalog interface {
	QuestionsForTest(ctx context.Context, testID uuid.UUID) ([]model.Question, error)
}

// TestFinder looks up tests. Implemented by repository.TestRepository.
type TestFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error)
}

// DraftStore keeps autosaved responses and auto-submit deadlines.
// Implemented by repository.DraftRepository.
type DraftStore interface {
	SaveResponses(ctx context.Context, attemptID uuid.UUID, responses []model.Response) error
	LoadResponses(ctx context.Context, attemptID uuid.UUID) ([]model.Response, error)
	ScheduleDeadline(ctx context.Context, attemptID uuid.UUID, deadline time.Time) error
	Clear(ctx context.Context, attemptID uuid.UUID) error
}

// UserFinder looks up users for login. Implemented by repository.UserRepository.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
