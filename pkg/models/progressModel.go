package models

import "time"

type MCQAttempt struct {
	QuestionID      string    `json:"questionId"`
	SelectedOptions []string  `json:"selectedOptions"`
	IsCorrect       bool      `json:"isCorrect"`
	AttemptedAt     time.Time `json:"attemptedAt"`
}

// UserProgress is the single user's record for one course.
type UserProgress struct {
	CourseID           string       `json:"courseId"`
	CompletedItems     []string     `json:"completedItems"`
	MCQAttempts        []MCQAttempt `json:"mcqAttempts"`
	LastAccessedAt     time.Time    `json:"lastAccessedAt"`
	ProgressPercentage float64      `json:"progressPercentage"`
}

func (p UserProgress) Clone() UserProgress {
	out := p
	out.CompletedItems = cloneStrings(p.CompletedItems)
	if p.MCQAttempts != nil {
		out.MCQAttempts = make([]MCQAttempt, len(p.MCQAttempts))
		for i, a := range p.MCQAttempts {
			a.SelectedOptions = cloneStrings(a.SelectedOptions)
			out.MCQAttempts[i] = a
		}
	}
	return out
}

func (p *UserProgress) IsCompleted(itemID string) bool {
	for _, id := range p.CompletedItems {
		if id == itemID {
			return true
		}
	}
	return false
}

// Percentage is the share of items that appear in completed, in [0, 100].
// A course without items is at 0.
func Percentage(completed []string, items []CourseItem) float64 {
	if len(items) == 0 {
		return 0
	}
	done := make(map[string]struct{}, len(completed))
	for _, id := range completed {
		done[id] = struct{}{}
	}
	n := 0
	for _, it := range items {
		if _, ok := done[it.ID]; ok {
			n++
		}
	}
	return float64(n) / float64(len(items)) * 100
}
