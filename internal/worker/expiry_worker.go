package worker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/mockexam-backend/internal/model"
	"github.com/stemsi/mockexam-backend/internal/service"
)

const expiryBatchSize = 100

// DeadlineQueue yields attempts whose time is up. Implemented by repository.DraftRepository.
type DeadlineQueue interface {
	DueAttempts(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	Clear(ctx context.Context, attemptID uuid.UUID) error
}

// AutoSubmitter finalizes an attempt from its draft. Implemented by service.AttemptService.
type AutoSubmitter interface {
	AutoSubmit(ctx context.Context, attemptID uuid.UUID) (*model.GradedResult, error)
}

// ExpiryWorker auto-submits attempts whose deadline plus grace has passed.
type ExpiryWorker struct {
	queue     DeadlineQueue
	submitter AutoSubmitter
	interval  time.Duration
	grace     time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewExpiryWorker creates a new ExpiryWorker.
func NewExpiryWorker(
	queue DeadlineQueue,
	submitter AutoSubmitter,
	interval, grace time.Duration,
	log zerolog.Logger,
) *ExpiryWorker {
	return &ExpiryWorker{
		queue:     queue,
		submitter: submitter,
		interval:  interval,
		grace:     grace,
		now:       time.Now,
		log:       log.With().Str("component", "expiry_worker").Logger(),
	}
}

// Start begins the polling loop. Call in a goroutine.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.log.Info().
		Dur("interval", w.interval).
		Dur("grace", w.grace).
		Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick processes one batch of overdue attempts and returns how many were submitted.
func (w *ExpiryWorker) Tick(ctx context.Context) int {
	due, err := w.queue.DueAttempts(ctx, w.now().Add(-w.grace), expiryBatchSize)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Failed to read due attempts")
		}
		return 0
	}

	submitted := 0
	for _, id := range due {
		if ctx.Err() != nil {
			break
		}

		result, err := w.submitter.AutoSubmit(ctx, id)
		switch {
		case err == nil:
			submitted++
			w.log.Info().
				Str("attempt_id", id.String()).
				Float64("total_marks", result.TotalMarks).
				Msg("Attempt auto-submitted")
		case errors.Is(err, service.ErrAlreadySubmitted), errors.Is(err, service.ErrAttemptNotFound):
			// Submitted manually or deleted; only the deadline entry is left.
			if err := w.queue.Clear(ctx, id); err != nil {
				w.log.Warn().Err(err).Str("attempt_id", id.String()).Msg("Failed to clear deadline")
			}
		default:
			// Left in the queue for the next tick.
			w.log.Error().Err(err).Str("attempt_id", id.String()).Msg("Auto-submit failed")
		}
	}

	if len(due) > 0 {
		w.log.Debug().
			Int("due", len(due)).
			Int("submitted", submitted).
			Msg("Expiry tick complete")
	}
	return submitted
}
