package store

import (
	"context"
	"slices"

	"coursedash/pkg/models"
)

// MarkItemComplete records itemID as completed for the course and recomputes
// the course percentage. Marking an item twice only refreshes LastAccessedAt.
// Unknown courses and items are ignored.
func (s *Store) MarkItemComplete(ctx context.Context, courseID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.courseIndex(courseID)
	if i < 0 {
		return nil
	}
	c := &s.courses[i]
	if _, _, ok := c.Item(itemID); !ok {
		return nil
	}
	return s.updateProgress(ctx, courseID, func(p *models.UserProgress) {
		complete(p, itemID)
		p.ProgressPercentage = models.Percentage(p.CompletedItems, c.Items)
	})
}

// RecordMCQAttempt appends an attempt graded by the caller. Attempts are never
// merged or overwritten.
func (s *Store) RecordMCQAttempt(ctx context.Context, courseID, questionID string, selected []string, isCorrect bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.courseIndex(courseID) < 0 {
		return nil
	}
	return s.updateProgress(ctx, courseID, func(p *models.UserProgress) {
		p.MCQAttempts = append(p.MCQAttempts, s.attempt(questionID, selected, isCorrect))
	})
}

// SubmitMCQAnswer grades selected against the question held by the item,
// records the attempt and, when correct, marks the item completed. The result
// carries the correct options and the explanation as they were at grading
// time. The bool is false when the course or item does not exist.
func (s *Store) SubmitMCQAnswer(ctx context.Context, courseID, itemID string, selected []string) (models.MCQResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.courseIndex(courseID)
	if i < 0 {
		return models.MCQResult{}, false, nil
	}
	c := &s.courses[i]
	it, _, ok := c.Item(itemID)
	if !ok {
		return models.MCQResult{}, false, nil
	}
	q, isQuestion := it.Content.(*models.MCQQuestion)
	if !isQuestion {
		return models.MCQResult{}, true, ErrNotMCQ
	}

	a := s.attempt(itemID, selected, q.Grade(selected))
	err := s.updateProgress(ctx, courseID, func(p *models.UserProgress) {
		p.MCQAttempts = append(p.MCQAttempts, a)
		if a.IsCorrect {
			complete(p, itemID)
			p.ProgressPercentage = models.Percentage(p.CompletedItems, c.Items)
		}
	})
	if err != nil {
		return models.MCQResult{}, true, err
	}
	a.SelectedOptions = slices.Clone(a.SelectedOptions)
	res := models.MCQResult{
		Attempt:        a,
		CorrectOptions: q.CorrectOptions(),
		Explanation:    q.Explanation,
	}
	if j := s.progressIndex(courseID); j >= 0 {
		res.Progress = s.progress[j].ProgressPercentage
	}
	s.log.Debug().
		Str("course_id", courseID).
		Str("item_id", itemID).
		Bool("correct", a.IsCorrect).
		Msg("answer graded")
	return res, true, nil
}

func (s *Store) GetUserProgress(courseID string) (models.UserProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j := s.progressIndex(courseID)
	if j < 0 {
		return models.UserProgress{}, false
	}
	return s.progress[j].Clone(), true
}

// updateProgress applies fn to a copy of the course's progress record, creating
// the record first if needed, stamps LastAccessedAt and persists the result.
func (s *Store) updateProgress(ctx context.Context, courseID string, fn func(*models.UserProgress)) error {
	var p models.UserProgress
	j := s.progressIndex(courseID)
	if j >= 0 {
		p = s.progress[j].Clone()
	} else {
		p = models.UserProgress{
			CourseID:       courseID,
			CompletedItems: []string{},
			MCQAttempts:    []models.MCQAttempt{},
		}
	}
	fn(&p)
	p.LastAccessedAt = s.now()

	var next []models.UserProgress
	if j >= 0 {
		next = slices.Clone(s.progress)
		next[j] = p
	} else {
		next = append(slices.Clip(s.progress), p)
	}
	return s.saveProgress(ctx, next)
}

func (s *Store) attempt(questionID string, selected []string, isCorrect bool) models.MCQAttempt {
	sel := slices.Clone(selected)
	if sel == nil {
		sel = []string{}
	}
	return models.MCQAttempt{
		QuestionID:      questionID,
		SelectedOptions: sel,
		IsCorrect:       isCorrect,
		AttemptedAt:     s.now(),
	}
}

func complete(p *models.UserProgress, itemID string) {
	if !p.IsCompleted(itemID) {
		p.CompletedItems = append(p.CompletedItems, itemID)
	}
}
