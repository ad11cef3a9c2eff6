package store

import (
	"cmp"
	"slices"
	"strings"

	"coursedash/pkg/models"
)

// ListCourses returns copies of the courses matching f in creation order.
func (s *Store) ListCourses(f models.CourseFilter) []models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Course, 0, len(s.courses))
	for i := range s.courses {
		if f.Match(&s.courses[i]) {
			out = append(out, s.courses[i].Clone())
		}
	}
	return out
}

// ListItems is the playlist view of a course. Sorting is stable, so items that
// compare equal stay in their stored sequence.
func (s *Store) ListItems(courseID string, q models.ItemQuery) ([]models.CourseItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.courseIndex(courseID)
	if i < 0 {
		return nil, false
	}
	var p *models.UserProgress
	if j := s.progressIndex(courseID); j >= 0 {
		p = &s.progress[j]
	}
	done := func(id string) bool { return p != nil && p.IsCompleted(id) }
	search := strings.ToLower(q.Search)

	out := make([]models.CourseItem, 0, len(s.courses[i].Items))
	for _, it := range s.courses[i].Items {
		if q.Type != "" && it.Type != q.Type {
			continue
		}
		if q.HideCompleted && done(it.ID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(it.Title), search) {
			continue
		}
		out = append(out, it.Clone())
	}

	switch q.SortBy {
	case models.SortByDuration:
		slices.SortStableFunc(out, func(a, b models.CourseItem) int {
			return cmp.Compare(duration(b), duration(a))
		})
	case models.SortByType:
		slices.SortStableFunc(out, func(a, b models.CourseItem) int {
			return strings.Compare(string(a.Type), string(b.Type))
		})
	case models.SortByCompletion:
		// Open items first.
		slices.SortStableFunc(out, func(a, b models.CourseItem) int {
			return cmp.Compare(btoi(done(a.ID)), btoi(done(b.ID)))
		})
	default:
		slices.SortStableFunc(out, func(a, b models.CourseItem) int {
			return cmp.Compare(a.Order, b.Order)
		})
	}
	return out, true
}

func (s *Store) ListProgress() []models.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.UserProgress, len(s.progress))
	for i, p := range s.progress {
		out[i] = p.Clone()
	}
	return out
}

// Stats summarizes the catalogue.
func (s *Store) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := models.Stats{ItemsByType: make(map[models.ItemType]int, len(models.ItemTypes))}
	for _, t := range models.ItemTypes {
		st.ItemsByType[t] = 0
	}
	for _, c := range s.courses {
		st.Courses++
		if c.IsPublished {
			st.Published++
		}
		st.Items += len(c.Items)
		st.TotalDuration += c.TotalDuration
		for _, it := range c.Items {
			st.ItemsByType[it.Type]++
		}
	}
	return st
}

func duration(it models.CourseItem) int {
	if it.Duration == nil {
		return 0
	}
	return *it.Duration
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
