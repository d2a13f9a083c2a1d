package model

import (
	"time"

	"github.com/google/uuid"
)

// Section enumerates the subject partitions of a test.
type Section string

const (
	SectionPhysics     Section = "Physics"
	SectionChemistry   Section = "Chemistry"
	SectionMathematics Section = "Mathematics"
)

// Sections lists every section in display order.
var Sections = []Section{SectionPhysics, SectionChemistry, SectionMathematics}

// Valid reports whether s belongs to the fixed enumeration.
func (s Section) Valid() bool {
	switch s {
	case SectionPhysics, SectionChemistry, SectionMathematics:
		return true
	}
	return false
}

const (
	MaxOptions           = 4
	DefaultMarks         = 4.0
	DefaultNegativeMarks = 1.0
)

// Question represents a single scoreable question in a test catalog.
type Question struct {
	ID             uuid.UUID `json:"id"`
	TestID         uuid.UUID `json:"test_id"`
	QuestionNumber int       `json:"question_number"`
	Text           string    `json:"text"`
	Options        []string  `json:"options"`
	CorrectAnswer  string    `json:"correct_answer"`
	Section        Section   `json:"section"`
	Marks          float64   `json:"marks"`
	NegativeMarks  float64   `json:"negative_marks"`
	CreatedAt      time.Time `json:"created_at"`
}

// QuestionForCandidate is a question without the correct answer, sent to candidates.
type QuestionForCandidate struct {
	ID             uuid.UUID `json:"id"`
	QuestionNumber int       `json:"question_number"`
	Text           string    `json:"text"`
	Options        []string  `json:"options"`
	Section        Section   `json:"section"`
	Marks          float64   `json:"marks"`
	NegativeMarks  float64   `json:"negative_marks"`
}

// ForCandidate strips the answer key from q.
func (q Question) ForCandidate() QuestionForCandidate {
	return QuestionForCandidate{
		ID:             q.ID,
		QuestionNumber: q.QuestionNumber,
		Text:           q.Text,
		Options:        q.Options,
		Section:        q.Section,
		Marks:          q.Marks,
		NegativeMarks:  q.NegativeMarks,
	}
}

// TestPaper is the candidate-facing view of a test and its questions.
type TestPaper struct {
	Test      Test                   `json:"test"`
	Questions []QuestionForCandidate `json:"questions"`
}
