package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/mockexam-backend/internal/model"
)

// TestRepository handles mock test data access.
type TestRepository struct {
	pool *pgxpool.Pool
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(pool *pgxpool.Pool) *TestRepository {
	return &TestRepository{pool: pool}
}

// GetByID retrieves a test by its UUID.
func (r *TestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	t := &model.Test{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, date, shift, duration_minutes, total_questions, status, created_at
		 FROM tests WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Date, &t.Shift, &t.DurationMinutes, &t.TotalQuestions, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// ListPublished retrieves all published tests, newest date first.
func (r *TestRepository) ListPublished(ctx context.Context) ([]model.Test, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, date, shift, duration_minutes, total_questions, status, created_at
		 FROM tests WHERE status = $1
		 ORDER BY date DESC, created_at DESC`, model.TestStatusPublished,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []model.Test
	for rows.Next() {
		var t model.Test
		if err := rows.Scan(&t.ID, &t.Name, &t.Date, &t.Shift, &t.DurationMinutes, &t.TotalQuestions, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

// Upsert inserts a test or updates it when the id already exists.
func (r *TestRepository) Upsert(ctx context.Context, t *model.Test) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO tests (id, name, date, shift, duration_minutes, total_questions, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		     name = EXCLUDED.name,
		     date = EXCLUDED.date,
		     shift = EXCLUDED.shift,
		     duration_minutes = EXCLUDED.duration_minutes,
		     total_questions = EXCLUDED.total_questions,
		     status = EXCLUDED.status
		 RETURNING created_at`,
		t.ID, t.Name, t.Date, t.Shift, t.DurationMinutes, t.TotalQuestions, t.Status,
	).Scan(&t.CreatedAt)
}
