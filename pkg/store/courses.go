package store

import (
	"context"
	"maps"
	"slices"

	"coursedash/pkg/models"
)

// CreateCourse adds an empty course and returns its id. Fields are stored as
// given; nothing is required.
func (s *Store) CreateCourse(ctx context.Context, in models.CourseInput) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := models.Course{
		ID:             s.newID(),
		Title:          in.Title,
		Description:    in.Description,
		Instructor:     in.Instructor,
		Thumbnail:      in.Thumbnail,
		Difficulty:     in.Difficulty,
		Tags:           slices.Clone(in.Tags),
		IsPublished:    in.IsPublished,
		OrganizationID: in.OrganizationID,
		CollectionIDs:  slices.Clone(in.CollectionIDs),
		CustomFields:   maps.Clone(in.CustomFields),
		Items:          []models.CourseItem{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.CollectionIDs == nil {
		c.CollectionIDs = []string{}
	}
	if err := s.saveCourses(ctx, append(slices.Clip(s.courses), c)); err != nil {
		return "", err
	}
	s.log.Debug().Str("course_id", c.ID).Msg("course created")
	return c.ID, nil
}

// UpdateCourse merges p into the course. Unknown ids are ignored.
func (s *Store) UpdateCourse(ctx context.Context, id string, p models.CoursePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.courseIndex(id)
	if i < 0 {
		return nil
	}
	c := s.courses[i].Clone()
	p.Apply(&c)
	c.UpdatedAt = s.now()

	next := slices.Clone(s.courses)
	next[i] = c
	return s.saveCourses(ctx, next)
}

// DeleteCourse removes the course together with its progress record.
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.courseIndex(id)
	if i < 0 {
		return nil
	}
	next := slices.Delete(slices.Clone(s.courses), i, i+1)
	if err := s.saveCourses(ctx, next); err != nil {
		return err
	}
	if j := s.progressIndex(id); j >= 0 {
		if err := s.saveProgress(ctx, slices.Delete(slices.Clone(s.progress), j, j+1)); err != nil {
			return err
		}
	}
	s.log.Debug().Str("course_id", id).Msg("course deleted")
	return nil
}

func (s *Store) GetCourse(id string) (models.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.courseIndex(id)
	if i < 0 {
		return models.Course{}, false
	}
	return s.courses[i].Clone(), true
}
