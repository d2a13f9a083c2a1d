package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stemsi/mockexam-backend/internal/catalogfile"
	"github.com/stemsi/mockexam-backend/internal/config"
	"github.com/stemsi/mockexam-backend/internal/database"
	"github.com/stemsi/mockexam-backend/internal/logger"
	"github.com/stemsi/mockexam-backend/internal/model"
	"github.com/stemsi/mockexam-backend/internal/repository"
	"github.com/stemsi/mockexam-backend/internal/service"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Validate the files without writing anything")
	flag.Usage = func() {
		fmt.Println("Usage: seed-catalog [flags] <catalog.yaml>...")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Parse everything first so a bad file aborts before any write.
	tests := make([]*seed, 0, flag.NArg())
	for _, path := range flag.Args() {
		s, err := readSeed(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Invalid catalog file")
		}
		tests = append(tests, s)
		log.Info().
			Str("file", path).
			Str("test", s.test.Name).
			Int("questions", len(s.questions)).
			Msg("Catalog file OK")
	}

	if *dryRun {
		return
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	testRepo := repository.NewTestRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	catalogService := service.NewCatalogService(testRepo, questionRepo, rdb, cfg.CatalogCacheTTL, log)

	for _, s := range tests {
		if err := testRepo.Upsert(ctx, s.test); err != nil {
			log.Fatal().Err(err).Str("file", s.path).Msg("Failed to save test")
		}
		if err := questionRepo.ReplaceForTest(ctx, s.test.ID, s.questions); err != nil {
			log.Fatal().Err(err).Str("file", s.path).Msg("Failed to save questions")
		}
		if err := catalogService.Invalidate(ctx, s.test.ID); err != nil {
			log.Warn().Err(err).Str("test_id", s.test.ID.String()).Msg("Failed to invalidate catalog cache")
		}

		log.Info().
			Str("test_id", s.test.ID.String()).
			Str("status", string(s.test.Status)).
			Int("questions", len(s.questions)).
			Msg("Test seeded")
	}
}

type seed struct {
	path      string
	test      *model.Test
	questions []model.Question
}

func readSeed(path string) (*seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	test, questions, err := catalogfile.Parse(f)
	if err != nil {
		return nil, err
	}
	return &seed{path: path, test: test, questions: questions}, nil
}
