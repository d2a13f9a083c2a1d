// Package catalogfile reads test catalogs from YAML files for seeding.
package catalogfile

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/mockexam-backend/internal/model"
	"github.com/stemsi/mockexam-backend/internal/validator"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// File is the on-disk layout of one test and its questions.
type File struct {
	ID              string     `yaml:"id" validate:"omitempty,uuid"`
	Name            string     `yaml:"name" validate:"required,max=255"`
	Date            string     `yaml:"date" validate:"required,datetime=2006-01-02"`
	Shift           string     `yaml:"shift" validate:"required,oneof='Shift 1' 'Shift 2'"`
	DurationMinutes int        `yaml:"duration_minutes" validate:"gte=0"`
	Status          string     `yaml:"status" validate:"omitempty,oneof=draft published archived"`
	Questions       []Question `yaml:"questions" validate:"required,min=1,dive"`
}

// Question is one catalog entry in a File.
type Question struct {
	Number        int      `yaml:"number" validate:"required,gt=0"`
	Section       string   `yaml:"section" validate:"required,section"`
	Text          string   `yaml:"text" validate:"required"`
	Options       []string `yaml:"options" validate:"max=4"`
	CorrectAnswer string   `yaml:"correct_answer" validate:"required"`
	Marks         *float64 `yaml:"marks" validate:"omitempty,gte=0"`
	NegativeMarks *float64 `yaml:"negative_marks" validate:"omitempty,gte=0"`
}

// ValidationError lists every invalid field of a catalog file.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid catalog: " + strings.Join(parts, "; ")
}

// Parse decodes and validates a catalog, applying the question and test defaults.
// The returned questions are ordered by number and carry the test's id.
func Parse(r io.Reader) (*model.Test, []model.Question, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("empty catalog file")
		}
		return nil, nil, fmt.Errorf("decode catalog: %w", err)
	}

	if fields := validator.Struct(f); fields != nil {
		return nil, nil, &ValidationError{Fields: fields}
	}

	seen := make(map[int]bool, len(f.Questions))
	for _, q := range f.Questions {
		if seen[q.Number] {
			return nil, nil, &ValidationError{Fields: map[string]string{
				"questions": fmt.Sprintf("question number %d appears more than once", q.Number),
			}}
		}
		seen[q.Number] = true
	}

	test, err := f.test()
	if err != nil {
		return nil, nil, err
	}

	questions := make([]model.Question, len(f.Questions))
	for i, q := range f.Questions {
		questions[i] = q.model(test.ID)
	}
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].QuestionNumber < questions[j].QuestionNumber
	})

	return test, questions, nil
}

func (f File) test() (*model.Test, error) {
	date, err := time.Parse(dateLayout, f.Date)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	id := uuid.New()
	if f.ID != "" {
		id = uuid.MustParse(f.ID)
	}

	t := &model.Test{
		ID:              id,
		Name:            f.Name,
		Date:            date,
		Shift:           model.Shift(f.Shift),
		DurationMinutes: f.DurationMinutes,
		TotalQuestions:  len(f.Questions),
		Status:          model.TestStatus(f.Status),
	}
	if t.DurationMinutes == 0 {
		t.DurationMinutes = model.DefaultTestDurationMinutes
	}
	if t.Status == "" {
		t.Status = model.TestStatusDraft
	}
	return t, nil
}

func (q Question) model(testID uuid.UUID) model.Question {
	m := model.Question{
		ID:             uuid.New(),
		TestID:         testID,
		QuestionNumber: q.Number,
		Text:           q.Text,
		Options:        q.Options,
		CorrectAnswer:  q.CorrectAnswer,
		Section:        model.Section(q.Section),
		Marks:          model.DefaultMarks,
		NegativeMarks:  model.DefaultNegativeMarks,
	}
	if m.Options == nil {
		m.Options = []string{}
	}
	if q.Marks != nil {
		m.Marks = *q.Marks
	}
	if q.NegativeMarks != nil {
		m.NegativeMarks = *q.NegativeMarks
	}
	return m
}
