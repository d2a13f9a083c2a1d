package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/mockexam-backend/internal/model"
)

// AttemptListOpts filters an owner's attempt history.
type AttemptListOpts struct {
	Status model.AttemptStatus // optional: IN_PROGRESS | SUBMITTED
	Limit  int
	Offset int
}

const attemptColumns = `a.id, a.user_id, a.test_id, a.status, a.responses, a.started_at, a.ended_at,
	a.total_marks, a.correct_answers, a.incorrect_answers, a.unattempted, a.percentile, a.accuracy,
	a.section_wise_score, a.duration_minutes, a.created_at`

// AttemptRepository handles attempt data access.
// Rows are keyed by attempt id; the only mutation after insert is Transition.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Create inserts a new IN_PROGRESS attempt with no responses.
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	a.Status = model.AttemptStatusInProgress
	a.Responses = []model.Response{}
	return r.pool.QueryRow(ctx,
		`INSERT INTO attempts (user_id, test_id, status, started_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		a.UserID, a.TestID, a.Status, a.StartedAt,
	).Scan(&a.ID, &a.CreatedAt)
}

// GetByID retrieves an attempt by its UUID.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	a := &model.Attempt{}
	row := r.pool.QueryRow(ctx, `SELECT `+attemptColumns+` FROM attempts a WHERE a.id = $1`, id)
	if err := scanAttempt(row, a); err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// GetDetail retrieves an attempt joined with its test and owner profile.
func (r *AttemptRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.AttemptDetail, error) {
	d := &model.AttemptDetail{}
	row := r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+`,
		        t.id, t.name, t.date, t.shift,
		        u.id, u.name, u.email
		 FROM attempts a
		 JOIN tests t ON t.id = a.test_id
		 JOIN users u ON u.id = a.user_id
		 WHERE a.id = $1`, id,
	)
	err := scanAttempt(row, &d.Attempt,
		&d.Test.ID, &d.Test.Name, &d.Test.Date, &d.Test.Shift,
		&d.User.ID, &d.User.Name, &d.User.Email,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

// ListByOwner retrieves a user's attempts with their tests, newest first.
func (r *AttemptRepository) ListByOwner(ctx context.Context, userID int, opts AttemptListOpts) ([]model.AttemptSummary, error) {
	query, args, err := buildListByOwner(userID, opts).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.AttemptSummary
	for rows.Next() {
		var s model.AttemptSummary
		if err := scanAttempt(rows, &s.Attempt, &s.Test.ID, &s.Test.Name, &s.Test.Date, &s.Test.Shift); err != nil {
			return nil, err
		}
		attempts = append(attempts, s)
	}
	return attempts, rows.Err()
}

func buildListByOwner(userID int, opts AttemptListOpts) squirrel.SelectBuilder {
	q := psql.Select(attemptColumns, "t.id", "t.name", "t.date", "t.shift").
		From("attempts a").
		Join("tests t ON t.id = a.test_id").
		Where(squirrel.Eq{"a.user_id": userID}).
		OrderBy("a.created_at DESC", "a.id DESC")

	if opts.Status != "" {
		q = q.Where(squirrel.Eq{"a.status": string(opts.Status)})
	}
	if opts.Limit > 0 {
		q = q.Limit(uint64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Offset(uint64(opts.Offset))
	}
	return q
}

// Transition atomically moves an attempt from one status to another and writes
// the graded outcome in the same statement. It reports false when the attempt
// was not in the expected status, so only one caller can ever win.
func (r *AttemptRepository) Transition(ctx context.Context, id uuid.UUID, from, to model.AttemptStatus, outcome *model.AttemptOutcome) (bool, error) {
	responses, err := json.Marshal(outcome.Responses)
	if err != nil {
		return false, fmt.Errorf("marshal responses: %w", err)
	}
	sections, err := json.Marshal(outcome.Result.SectionWiseScore)
	if err != nil {
		return false, fmt.Errorf("marshal section scores: %w", err)
	}

	res := outcome.Result
	tag, err := r.pool.Exec(ctx,
		`UPDATE attempts
		 SET status = $3,
		     responses = $4,
		     ended_at = $5,
		     total_marks = $6,
		     correct_answers = $7,
		     incorrect_answers = $8,
		     unattempted = $9,
		     percentile = $10,
		     accuracy = $11,
		     section_wise_score = $12,
		     duration_minutes = $13
		 WHERE id = $1 AND status = $2`,
		id, from, to, responses, outcome.EndedAt,
		res.TotalMarks, res.CorrectAnswers, res.IncorrectAnswers, res.Unattempted,
		res.Percentile, res.Accuracy, sections, outcome.DurationMinutes,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// scanAttempt scans attemptColumns into a, followed by any extra destinations.
func scanAttempt(row pgx.Row, a *model.Attempt, extra ...any) error {
	var responses, sections []byte
	dest := []any{
		&a.ID, &a.UserID, &a.TestID, &a.Status, &responses, &a.StartedAt, &a.EndedAt,
		&a.TotalMarks, &a.CorrectAnswers, &a.IncorrectAnswers, &a.Unattempted, &a.Percentile, &a.Accuracy,
		&sections, &a.DurationMinutes, &a.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}

	a.Responses = []model.Response{}
	if len(responses) > 0 {
		if err := json.Unmarshal(responses, &a.Responses); err != nil {
			return fmt.Errorf("decode responses: %w", err)
		}
	}
	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &a.SectionWiseScore); err != nil {
			return fmt.Errorf("decode section scores: %w", err)
		}
	}
	return nil
}
