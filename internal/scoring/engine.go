// Package scoring grades attempt submissions against a question catalog.
//
// Everything here is a pure function of its inputs: no storage is read or
// written and no state is retained between calls.
package scoring

import (
	"math"

	"github.com/google/uuid"
	"github.com/stemsi/mockexam-backend/internal/model"
)

// Grade classifies every catalog question as correct, incorrect or unattempted
// and aggregates the totals. Responses naming questions outside the catalog
// are ignored. When several responses share a question id the first one wins.
//
// Percentile is left at zero; callers derive it with EstimatePercentile.
func Grade(questions []model.Question, responses []model.Response) model.GradedResult {
	byQuestion := indexResponses(responses)

	result := model.GradedResult{
		SectionWiseScore: emptySectionWiseScore(),
	}

	for _, q := range questions {
		resp, ok := byQuestion[q.ID]
		sec, known := result.SectionWiseScore[q.Section]

		switch {
		case !ok || !resp.Answered():
			result.Unattempted++
			sec.Unattempted++
		case *resp.SelectedAnswer == q.CorrectAnswer:
			result.CorrectAnswers++
			result.TotalMarks += q.Marks
			sec.Correct++
		default:
			result.IncorrectAnswers++
			result.TotalMarks -= q.NegativeMarks
			sec.Incorrect++
		}

		if known {
			result.SectionWiseScore[q.Section] = sec
		}
	}

	result.Accuracy = Accuracy(result.CorrectAnswers, len(questions))
	return result
}

// Accuracy returns correct/total as a percentage rounded to two decimals.
// An empty catalog has an accuracy of zero.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round2(float64(correct) / float64(total) * 100)
}

// UnknownQuestionIDs returns the ids of responses that match no catalog question,
// in response order and without duplicates.
func UnknownQuestionIDs(questions []model.Question, responses []model.Response) []uuid.UUID {
	known := make(map[uuid.UUID]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}

	var unknown []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	for _, r := range responses {
		if _, ok := known[r.QuestionID]; ok {
			continue
		}
		if _, dup := seen[r.QuestionID]; dup {
			continue
		}
		seen[r.QuestionID] = struct{}{}
		unknown = append(unknown, r.QuestionID)
	}
	return unknown
}

func indexResponses(responses []model.Response) map[uuid.UUID]model.Response {
	idx := make(map[uuid.UUID]model.Response, len(responses))
	for _, r := range responses {
		if _, exists := idx[r.QuestionID]; exists {
			continue
		}
		idx[r.QuestionID] = r
	}
	return idx
}

func emptySectionWiseScore() model.SectionWiseScore {
	s := make(model.SectionWiseScore, len(model.Sections))
	for _, sec := range model.Sections {
		s[sec] = model.SectionScore{}
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
