package models

// CorrectOptions returns the ids of the options marked correct, in option order.
func (q *MCQQuestion) CorrectOptions() []string {
	var ids []string
	for _, o := range q.Options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// Grade reports whether selected is exactly the set of correct options.
// Duplicate selections are counted once. A question with no correct option can
// never be answered correctly.
func (q *MCQQuestion) Grade(selected []string) bool {
	correct := q.CorrectOptions()
	if len(correct) == 0 {
		return false
	}
	want := make(map[string]bool, len(correct))
	for _, id := range correct {
		want[id] = true
	}
	seen := make(map[string]bool, len(selected))
	for _, id := range selected {
		if !want[id] {
			return false
		}
		seen[id] = true
	}
	return len(seen) == len(want)
}

// MCQResult is a graded answer with what the viewer reveals after submission.
type MCQResult struct {
	Attempt        MCQAttempt
	CorrectOptions []string
	Explanation    string
	Progress       float64
}
