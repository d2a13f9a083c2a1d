package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/mockexam-backend/internal/config"
	"github.com/stemsi/mockexam-backend/internal/model"
	"github.com/stemsi/mockexam-backend/internal/repository"
)

// CatalogService serves tests and their question catalogs, reading questions
// through a Redis cache in front of PostgreSQL.
type CatalogService struct {
	testRepo     *repository.TestRepository
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
	ttl          time.Duration
	log          zerolog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	testRepo *repository.TestRepository,
	questionRepo *repository.QuestionRepository,
	rdb *redis.Client,
	ttl time.Duration,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		rdb:          rdb,
		ttl:          ttl,
		log:          log.With().Str("component", "catalog_service").Logger(),
	}
}

// ListPublishedTests returns every published test, newest date first.
func (s *CatalogService) ListPublishedTests(ctx context.Context) ([]model.Test, error) {
	tests, err := s.testRepo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published tests: %w", err)
	}
	if tests == nil {
		tests = []model.Test{}
	}
	return tests, nil
}

// GetTest returns a published test.
func (s *CatalogService) GetTest(ctx context.Context, testID uuid.UUID) (*model.Test, error) {
	test, err := s.testRepo.GetByID(ctx, testID)
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

// PaperForTest returns a published test with its questions, answer keys stripped.
func (s *CatalogService) PaperForTest(ctx context.Context, testID uuid.UUID) (*model.TestPaper, error) {
	test, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	questions, err := s.QuestionsForTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	paper := &model.TestPaper{
		Test:      *test,
		Questions: make([]model.QuestionForCandidate, len(questions)),
	}
	for i, q := range questions {
		paper.Questions[i] = q.ForCandidate()
	}
	return paper, nil
}

// QuestionsForTest returns the full catalog of a test, answer keys included.
// A Redis failure degrades to a PostgreSQL read rather than an error.
func (s *CatalogService) QuestionsForTest(ctx context.Context, testID uuid.UUID) ([]model.Question, error) {
	key := config.CacheKey.TestQuestionsKey(testID.String())

	data, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var questions []model.Question
		jsonErr := json.Unmarshal(data, &questions)
		if jsonErr == nil {
			return questions, nil
		}
		s.log.Warn().Err(jsonErr).Str("test_id", testID.String()).Msg("Corrupt catalog cache entry, reloading")
	case !errors.Is(err, redis.Nil):
		s.log.Warn().Err(err).Str("test_id", testID.String()).Msg("Catalog cache read failed")
	}

	return s.load(ctx, testID)
}

// Invalidate drops the cached catalog of a test.
func (s *CatalogService) Invalidate(ctx context.Context, testID uuid.UUID) error {
	return s.rdb.Del(ctx, config.CacheKey.TestQuestionsKey(testID.String())).Err()
}

// PrewarmPublished loads every published test's catalog into Redis on startup.
func (s *CatalogService) PrewarmPublished(ctx context.Context) error {
	tests, err := s.testRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published tests: %w", err)
	}

	if len(tests) == 0 {
		s.log.Info().Msg("No published tests to prewarm")
		return nil
	}

	warmed := 0
	for _, t := range tests {
		if _, err := s.load(ctx, t.ID); err != nil {
			s.log.Warn().
				Err(err).
				Str("test_id", t.ID.String()).
				Msg("Failed to warm test catalog, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(tests)).
		Msg("Prewarming complete")
	return nil
}

// load reads the catalog from PostgreSQL and caches it.
func (s *CatalogService) load(ctx context.Context, testID uuid.UUID) ([]model.Question, error) {
	questions, err := s.questionRepo.ListByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if questions == nil {
		questions = []model.Question{}
	}

	payload, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.TestQuestionsKey(testID.String()), payload, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Str("test_id", testID.String()).Msg("Catalog cache write failed")
	}

	s.log.Debug().
		Str("test_id", testID.String()).
		Int("questions", len(questions)).
		Msg("Catalog loaded")
	return questions, nil
}
