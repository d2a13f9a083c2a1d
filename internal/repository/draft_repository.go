package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/mockexam-backend/internal/config"
	"github.com/stemsi/mockexam-backend/internal/model"
)

// draftTTL keeps autosaved responses well past any test duration.
const draftTTL = 24 * time.Hour

// DraftRepository keeps in-progress attempt state in Redis: autosaved
// responses (one hash per attempt) and the deadline sorted set scanned by
// the expiry worker.
type DraftRepository struct {
	rdb *redis.Client
}

// NewDraftRepository creates a new DraftRepository.
func NewDraftRepository(rdb *redis.Client) *DraftRepository {
	return &DraftRepository{rdb: rdb}
}

// SaveResponses merges responses into the attempt's draft, one field per question.
func (r *DraftRepository) SaveResponses(ctx context.Context, attemptID uuid.UUID, responses []model.Response) error {
	if len(responses) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(responses))
	for _, resp := range responses {
		raw, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}
		fields[resp.QuestionID.String()] = raw
	}

	key := config.CacheKey.AttemptDraftKey(attemptID.String())
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, draftTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// LoadResponses returns the attempt's autosaved responses ordered by question id.
func (r *DraftRepository) LoadResponses(ctx context.Context, attemptID uuid.UUID) ([]model.Response, error) {
	raw, err := r.rdb.HGetAll(ctx, config.CacheKey.AttemptDraftKey(attemptID.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	responses := make([]model.Response, 0, len(raw))
	for field, value := range raw {
		var resp model.Response
		if err := json.Unmarshal([]byte(value), &resp); err != nil {
			return nil, fmt.Errorf("decode draft field %s: %w", field, err)
		}
		responses = append(responses, resp)
	}

	sort.Slice(responses, func(i, j int) bool {
		return responses[i].QuestionID.String() < responses[j].QuestionID.String()
	})
	return responses, nil
}

// ScheduleDeadline records when an in-progress attempt must be auto-submitted.
func (r *DraftRepository) ScheduleDeadline(ctx context.Context, attemptID uuid.UUID, deadline time.Time) error {
	return r.rdb.ZAdd(ctx, config.CacheKey.AttemptDeadlinesKey(), redis.Z{
		Score:  float64(deadline.Unix()),
		Member: attemptID.String(),
	}).Err()
}

// DueAttempts returns up to limit attempt ids whose deadline is at or before now.
func (r *DraftRepository) DueAttempts(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	members, err := r.rdb.ZRangeByScore(ctx, config.CacheKey.AttemptDeadlinesKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("range deadlines: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			// Unparseable members would be returned forever; drop them.
			_ = r.rdb.ZRem(ctx, config.CacheKey.AttemptDeadlinesKey(), m).Err()
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Clear removes the attempt's draft and deadline entry.
func (r *DraftRepository) Clear(ctx context.Context, attemptID uuid.UUID) error {
	pipe := r.rdb.Pipeline()
	pipe.Del(ctx, config.CacheKey.AttemptDraftKey(attemptID.String()))
	pipe.ZRem(ctx, config.CacheKey.AttemptDeadlinesKey(), attemptID.String())
	_, err := pipe.Exec(ctx)
	return err
}
