package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/mockexam-backend/internal/model"
	"github.com/stemsi/mockexam-backend/internal/repository"
	"github.com/stemsi/mockexam-backend/internal/scoring"
)

// Domain Errors
var (
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrTestNotFound     = errors.New("test not found")
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	ErrInvalidInput     = errors.New("invalid input")
)

// AttemptService runs the attempt lifecycle: start, autosave, submit and read back.
type AttemptService struct {
	attempts AttemptStore
	tests    TestFinder
	catalog  Catalog
	drafts   DraftStore
	log      zerolog.Logger
	now      func() time.Time
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	attempts AttemptStore,
	tests TestFinder,
	catalog Catalog,
	drafts DraftStore,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		attempts: attempts,
		tests:    tests,
		catalog:  catalog,
		drafts:   drafts,
		log:      log.With().Str("component", "attempt_service").Logger(),
		now:      time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *AttemptService) WithClock(now func() time.Time) *AttemptService {
	s.now = now
	return s
}

// Start creates an IN_PROGRESS attempt for a published test.
func (s *AttemptService) Start(ctx context.Context, userID int, testID uuid.UUID) (*model.StartAttemptResponse, error) {
	test, err := s.publishedTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	attempt := &model.Attempt{
		UserID:    userID,
		TestID:    testID,
		StartedAt: s.now(),
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	deadline := attempt.StartedAt.Add(time.Duration(test.DurationMinutes) * time.Minute)

	// The expiry worker only sees attempts with a deadline entry; a manual submit still works without one.
	if err := s.drafts.ScheduleDeadline(ctx, attempt.ID, deadline); err != nil {
		s.log.Warn().Err(err).Str("attempt_id", attempt.ID.String()).Msg("Failed to schedule attempt deadline")
	}

	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("test_id", testID.String()).
		Int("user_id", userID).
		Msg("Attempt started")

	return &model.StartAttemptResponse{
		AttemptID: attempt.ID,
		StartedAt: attempt.StartedAt,
		Deadline:  deadline,
	}, nil
}

// SaveDraft merges autosaved responses into an in-progress attempt.
func (s *AttemptService) SaveDraft(ctx context.Context, userID int, attemptID uuid.UUID, responses []model.Response) error {
	if err := validateResponses(responses); err != nil {
		return err
	}

	attempt, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return err
	}
	if attempt.Submitted() {
		return ErrAlreadySubmitted
	}

	if err := s.drafts.SaveResponses(ctx, attemptID, responses); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// GetState returns the autosaved responses and remaining time of an attempt,
// so a reloaded client can resume where it left off.
func (s *AttemptService) GetState(ctx context.Context, userID int, attemptID uuid.UUID) (*model.AttemptState, error) {
	attempt, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}

	state := &model.AttemptState{
		AttemptID: attempt.ID,
		Status:    attempt.Status,
		Responses: attempt.Responses,
	}
	if attempt.Submitted() {
		return state, nil
	}

	test, err := s.tests.GetByID(ctx, attempt.TestID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}

	drafts, err := s.drafts.LoadResponses(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	state.Responses = drafts

	deadline := attempt.StartedAt.Add(time.Duration(test.DurationMinutes) * time.Minute)
	remaining := deadline.Sub(s.now())
	if remaining < 0 {
		remaining = 0
	}
	state.RemainingSeconds = math.Floor(remaining.Seconds())

	return state, nil
}

// Submit grades the responses and moves the attempt to SUBMITTED.
// A submitted attempt is never graded again: later calls get ErrAlreadySubmitted.
func (s *AttemptService) Submit(ctx context.Context, userID int, attemptID uuid.UUID, responses []model.Response) (*model.GradedResult, error) {
	if err := validateResponses(responses); err != nil {
		return nil, err
	}

	attempt, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}

	return s.finalize(ctx, attempt, responses)
}

// AutoSubmit grades an attempt from its autosaved draft once its time is up.
func (s *AttemptService) AutoSubmit(ctx context.Context, attemptID uuid.UUID) (*model.GradedResult, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}

	responses, err := s.drafts.LoadResponses(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	return s.finalize(ctx, attempt, responses)
}

// GetResult returns the full attempt with its test and owner resolved.
func (s *AttemptService) GetResult(ctx context.Context, userID int, attemptID uuid.UUID) (*model.AttemptDetail, error) {
	detail, err := s.attempts.GetDetail(ctx, attemptID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt detail: %w", err)
	}
	if detail.UserID != userID {
		return nil, ErrAttemptNotFound
	}
	return detail, nil
}

// ListForOwner returns the user's attempts, newest first.
func (s *AttemptService) ListForOwner(ctx context.Context, userID int, opts repository.AttemptListOpts) ([]model.AttemptSummary, error) {
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, ErrInvalidInput
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	attempts, err := s.attempts.ListByOwner(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if attempts == nil {
		attempts = []model.AttemptSummary{}
	}
	return attempts, nil
}

// finalize grades and persists an attempt through the IN_PROGRESS -> SUBMITTED guard.
func (s *AttemptService) finalize(ctx context.Context, attempt *model.Attempt, responses []model.Response) (*model.GradedResult, error) {
	if attempt.Submitted() {
		return nil, ErrAlreadySubmitted
	}

	questions, err := s.catalog.QuestionsForTest(ctx, attempt.TestID)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if unknown := scoring.UnknownQuestionIDs(questions, responses); len(unknown) > 0 {
		s.log.Debug().
			Str("attempt_id", attempt.ID.String()).
			Int("count", len(unknown)).
			Msg("Ignoring responses for questions outside the catalog")
	}

	result := scoring.Grade(questions, responses)
	result.Percentile = scoring.EstimatePercentile(result.TotalMarks)

	endedAt := s.now()
	if responses == nil {
		responses = []model.Response{}
	}

	won, err := s.attempts.Transition(ctx, attempt.ID,
		model.AttemptStatusInProgress, model.AttemptStatusSubmitted,
		&model.AttemptOutcome{
			Responses:       responses,
			Result:          result,
			EndedAt:         endedAt,
			DurationMinutes: durationMinutes(attempt.StartedAt, endedAt),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("persist result: %w", err)
	}
	if !won {
		return nil, ErrAlreadySubmitted
	}

	if err := s.drafts.Clear(ctx, attempt.ID); err != nil {
		s.log.Warn().Err(err).Str("attempt_id", attempt.ID.String()).Msg("Failed to clear attempt draft")
	}

	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Float64("total_marks", result.TotalMarks).
		Float64("percentile", result.Percentile).
		Msg("Attempt submitted")

	return &result, nil
}

func (s *AttemptService) ownedAttempt(ctx context.Context, userID int, attemptID uuid.UUID) (*model.Attempt, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	// Another user's attempt is reported as missing.
	if attempt.UserID != userID {
		return nil, ErrAttemptNotFound
	}
	return attempt, nil
}

func (s *AttemptService) publishedTest(ctx context.Context, testID uuid.UUID) (*model.Test, error) {
	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("get test: %w", err)
	}
	if test.Status != model.TestStatusPublished {
		return nil, ErrTestNotFound
	}
	return test, nil
}

func validateResponses(responses []model.Response) error {
	for i, r := range responses {
		if r.QuestionID == uuid.Nil {
			return fmt.Errorf("%w: response %d has no question_id", ErrInvalidInput, i)
		}
	}
	return nil
}

// durationMinutes is clamped at zero so clock skew never yields a negative duration.
func durationMinutes(start, end time.Time) float64 {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return math.Round(d.Minutes()*100) / 100
}
