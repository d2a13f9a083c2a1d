package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates attempt lifecycle states.
// IN_PROGRESS -> SUBMITTED is the only transition and it is one-way.
type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "IN_PROGRESS"
	AttemptStatusSubmitted  AttemptStatus = "SUBMITTED"
)

// Response is a candidate's answer to one question.
// A nil or empty SelectedAnswer means the question was not attempted.
type Response struct {
	QuestionID     uuid.UUID `json:"question_id" binding:"required"`
	SelectedAnswer *string   `json:"selected_answer"`
	IsMarked       bool      `json:"is_marked"`
	IsReviewed     bool      `json:"is_reviewed"`
}

// Answered reports whether the response carries a non-empty answer.
func (r Response) Answered() bool {
	return r.SelectedAnswer != nil && *r.SelectedAnswer != ""
}

// SectionScore holds the per-section classification counts.
type SectionScore struct {
	Correct     int `json:"correct"`
	Incorrect   int `json:"incorrect"`
	Unattempted int `json:"unattempted"`
}

// Total returns the number of questions counted in the section.
func (s SectionScore) Total() int {
	return s.Correct + s.Incorrect + s.Unattempted
}

// SectionWiseScore maps every section to its counts.
type SectionWiseScore map[Section]SectionScore

// GradedResult is the outcome of grading one submission.
type GradedResult struct {
	TotalMarks       float64          `json:"total_marks"`
	CorrectAnswers   int              `json:"correct_answers"`
	IncorrectAnswers int              `json:"incorrect_answers"`
	Unattempted      int              `json:"unattempted"`
	Percentile       float64          `json:"percentile"`
	Accuracy         float64          `json:"accuracy"`
	SectionWiseScore SectionWiseScore `json:"section_wise_score"`
}

// Attempt represents one user's instance of taking a test.
// Graded fields stay zero until the attempt is SUBMITTED.
type Attempt struct {
	ID        uuid.UUID     `json:"id"`
	UserID    int           `json:"user_id"`
	TestID    uuid.UUID     `json:"test_id"`
	Status    AttemptStatus `json:"status"`
	Responses []Response    `json:"responses"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   *time.Time    `json:"ended_at,omitempty"`
	GradedResult
	DurationMinutes float64   `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

// Submitted reports whether the attempt reached its terminal state.
func (a *Attempt) Submitted() bool {
	return a.Status == AttemptStatusSubmitted
}

// AttemptOutcome carries everything persisted by the terminal transition.
type AttemptOutcome struct {
	Responses       []Response
	Result          GradedResult
	EndedAt         time.Time
	DurationMinutes float64
}

// AttemptDetail is an attempt with its test and owner resolved.
type AttemptDetail struct {
	Attempt
	Test TestSummary `json:"test"`
	User UserProfile `json:"user"`
}

// AttemptSummary is an attempt with its test resolved, used for history listings.
type AttemptSummary struct {
	Attempt
	Test TestSummary `json:"test"`
}

// StartAttemptRequest is the payload for starting an attempt.
type StartAttemptRequest struct {
	TestID uuid.UUID `json:"test_id" binding:"required"`
}

// StartAttemptResponse is returned after an attempt is created.
type StartAttemptResponse struct {
	AttemptID uuid.UUID `json:"attempt_id"`
	StartedAt time.Time `json:"started_at"`
	Deadline  time.Time `json:"deadline"`
}

// SubmitAttemptRequest is the payload for submitting an attempt.
type SubmitAttemptRequest struct {
	AttemptID uuid.UUID  `json:"attempt_id" binding:"required"`
	Responses []Response `json:"responses" binding:"max=500,dive"`
}

// SaveDraftRequest is the payload for autosaving responses mid-attempt.
type SaveDraftRequest struct {
	Responses []Response `json:"responses" binding:"required,min=1,max=500,dive"`
}

// AttemptState lets a reloaded client resume an attempt.
type AttemptState struct {
	AttemptID        uuid.UUID     `json:"attempt_id"`
	Status           AttemptStatus `json:"status"`
	Responses        []Response    `json:"responses"`
	RemainingSeconds float64       `json:"remaining_seconds"`
}
