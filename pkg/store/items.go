package store

import (
	"context"
	"fmt"
	"slices"

	"coursedash/pkg/models"
)

// AddCourseItem appends an item to the course and returns the new item id. The
// item's order is the number of items the course held before it. When no
// duration is given it is estimated from the content. An unknown course is
// ignored and yields an empty id.
func (s *Store) AddCourseItem(ctx context.Context, courseID string, in models.ItemInput) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.courseIndex(courseID)
	if i < 0 {
		return "", nil
	}
	typ, err := checkContent(in.Type, in.Content)
	if err != nil {
		return "", err
	}
	c := s.courses[i].Clone()
	now := s.now()
	it := models.CourseItem{
		ID:        s.newID(),
		CourseID:  c.ID,
		Title:     in.Title,
		Type:      typ,
		Content:   s.stampContent(in.Content, nil),
		Order:     len(c.Items),
		CreatedAt: now,
	}
	if in.Duration != nil {
		d := *in.Duration
		it.Duration = &d
	} else {
		d := models.EstimateDuration(it.Content)
		it.Duration = &d
	}
	c.Items = append(c.Items, it)
	c.TotalDuration = models.SumDuration(c.Items)
	c.UpdatedAt = now

	if err := s.commitCourse(ctx, i, c); err != nil {
		return "", err
	}
	s.log.Debug().Str("course_id", c.ID).Str("item_id", it.ID).Str("type", string(typ)).Msg("item added")
	return it.ID, nil
}

// UpdateCourseItem merges p into the item. A new content may change the item's
// type; a type change without content is rejected.
func (s *Store) UpdateCourseItem(ctx context.Context, courseID, itemID string, p models.ItemPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.courseIndex(courseID)
	if i < 0 {
		return nil
	}
	c := s.courses[i].Clone()
	it, j, ok := c.Item(itemID)
	if !ok {
		return nil
	}

	if p.Title != nil {
		it.Title = *p.Title
	}
	switch {
	case p.Content != nil:
		var want models.ItemType
		if p.Type != nil {
			want = *p.Type
		}
		typ, err := checkContent(want, p.Content)
		if err != nil {
			return err
		}
		var prev models.Content
		if it.Content != nil && it.Content.Kind() == typ {
			prev = it.Content
		}
		it.Content = s.stampContent(p.Content, prev)
		it.Type = typ
	case p.Type != nil && *p.Type != it.Type:
		return fmt.Errorf("%w: %s item cannot become %s without new content", ErrContentMismatch, it.Type, *p.Type)
	}
	if p.Duration != nil {
		d := *p.Duration
		it.Duration = &d
	}

	c.Items[j] = it
	c.TotalDuration = models.SumDuration(c.Items)
	c.UpdatedAt = s.now()
	return s.commitCourse(ctx, i, c)
}

// DeleteCourseItem removes the item. Remaining items keep their order values,
// so gaps are expected.
func (s *Store) DeleteCourseItem(ctx context.Context, courseID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.courseIndex(courseID)
	if i < 0 {
		return nil
	}
	c := s.courses[i].Clone()
	_, j, ok := c.Item(itemID)
	if !ok {
		return nil
	}
	c.Items = slices.Delete(c.Items, j, j+1)
	c.TotalDuration = models.SumDuration(c.Items)
	c.UpdatedAt = s.now()
	return s.commitCourse(ctx, i, c)
}

// ReorderCourseItems replaces the course's items with items, renumbering order
// densely from zero. Every item is reassigned to the course.
func (s *Store) ReorderCourseItems(ctx context.Context, courseID string, items []models.CourseItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.courseIndex(courseID)
	if i < 0 {
		return nil
	}
	for _, it := range items {
		if _, err := checkContent(it.Type, it.Content); err != nil {
			return fmt.Errorf("item %s: %w", it.ID, err)
		}
	}
	c := s.courses[i].Clone()
	c.Items = make([]models.CourseItem, len(items))
	for n, it := range items {
		it = it.Clone()
		it.CourseID = c.ID
		it.Order = n
		c.Items[n] = it
	}
	c.TotalDuration = models.SumDuration(c.Items)
	c.UpdatedAt = s.now()
	return s.commitCourse(ctx, i, c)
}

// commitCourse stores c at index i and brings the course's progress record in
// line with its new item list.
func (s *Store) commitCourse(ctx context.Context, i int, c models.Course) error {
	next := slices.Clone(s.courses)
	next[i] = c
	if err := s.saveCourses(ctx, next); err != nil {
		return err
	}
	j := s.progressIndex(c.ID)
	if j < 0 {
		return nil
	}
	p := s.progress[j].Clone()
	p.CompletedItems = slices.DeleteFunc(p.CompletedItems, func(id string) bool {
		_, _, ok := c.Item(id)
		return !ok
	})
	pct := models.Percentage(p.CompletedItems, c.Items)
	if pct == p.ProgressPercentage && len(p.CompletedItems) == len(s.progress[j].CompletedItems) {
		return nil
	}
	p.ProgressPercentage = pct
	nextP := slices.Clone(s.progress)
	nextP[j] = p
	return s.saveProgress(ctx, nextP)
}

func checkContent(t models.ItemType, c models.Content) (models.ItemType, error) {
	if c == nil {
		return "", ErrMissingContent
	}
	if t == "" {
		return c.Kind(), nil
	}
	if t != c.Kind() {
		return "", fmt.Errorf("%w: type %s, content %s", ErrContentMismatch, t, c.Kind())
	}
	return t, nil
}

// stampContent copies c and fills its identity and timestamps. Identity and
// creation time are inherited from prev when c carries none.
func (s *Store) stampContent(c, prev models.Content) models.Content {
	c = models.CloneContent(c)
	m := models.Meta(c)
	if prev != nil {
		pm := models.Meta(prev)
		if m.ID == "" {
			m.ID = pm.ID
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = pm.CreatedAt
		}
	}
	now := s.now()
	if m.ID == "" {
		m.ID = s.newID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	return c
}
