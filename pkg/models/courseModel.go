package models

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

type Course struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Instructor     string         `json:"instructor"`
	Thumbnail      string         `json:"thumbnail"`
	Difficulty     Difficulty     `json:"difficulty"`
	Tags           []string       `json:"tags"`
	IsPublished    bool           `json:"isPublished"`
	OrganizationID string         `json:"organizationId,omitempty"`
	CollectionIDs  []string       `json:"collectionIds"`
	CustomFields   map[string]any `json:"customFields,omitempty"`
	Items          []CourseItem   `json:"items"`
	TotalDuration  int            `json:"totalDuration"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Clone returns a deep copy of c. CustomFields values are copied shallowly.
func (c Course) Clone() Course {
	out := c
	out.Tags = cloneStrings(c.Tags)
	out.CollectionIDs = cloneStrings(c.CollectionIDs)
	if c.CustomFields != nil {
		out.CustomFields = maps.Clone(c.CustomFields)
	}
	if c.Items != nil {
		out.Items = make([]CourseItem, len(c.Items))
		for i, it := range c.Items {
			out.Items[i] = it.Clone()
		}
	}
	return out
}

// Item returns the item with the given id.
func (c *Course) Item(id string) (CourseItem, int, bool) {
	for i, it := range c.Items {
		if it.ID == id {
			return it, i, true
		}
	}
	return CourseItem{}, -1, false
}

// SumDuration adds up item durations, counting a missing duration as zero.
func SumDuration(items []CourseItem) int {
	total := 0
	for _, it := range items {
		if it.Duration != nil {
			total += *it.Duration
		}
	}
	return total
}

type CourseItem struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	Title     string    `json:"title"`
	Type      ItemType  `json:"type"`
	Content   Content   `json:"content"`
	Order     int       `json:"order"`
	Duration  *int      `json:"duration,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (it CourseItem) Clone() CourseItem {
	out := it
	out.Content = CloneContent(it.Content)
	if it.Duration != nil {
		d := *it.Duration
		out.Duration = &d
	}
	return out
}

// UnmarshalJSON picks the content shape from the item's type.
func (it *CourseItem) UnmarshalJSON(data []byte) error {
	type plain CourseItem
	aux := struct {
		*plain
		Content json.RawMessage `json:"content"`
	}{plain: (*plain)(it)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if !it.Type.Valid() {
		return fmt.Errorf("item %s: unknown type %q", it.ID, it.Type)
	}
	c, err := DecodeContent(it.Type, aux.Content)
	if err != nil {
		return fmt.Errorf("item %s: %w", it.ID, err)
	}
	it.Content = c
	return nil
}

// CourseInput carries the caller-supplied fields of a new course.
type CourseInput struct {
	Title          string
	Description    string
	Instructor     string
	Thumbnail      string
	Difficulty     Difficulty
	Tags           []string
	IsPublished    bool
	OrganizationID string
	CollectionIDs  []string
	CustomFields   map[string]any
}

// CoursePatch is a partial course update; nil fields are left unchanged.
// CustomFields entries are merged key by key.
type CoursePatch struct {
	Title          *string
	Description    *string
	Instructor     *string
	Thumbnail      *string
	Difficulty     *Difficulty
	Tags           *[]string
	IsPublished    *bool
	OrganizationID *string
	CollectionIDs  *[]string
	CustomFields   map[string]any
}

// Apply merges p into c. Timestamps are the caller's concern.
func (p CoursePatch) Apply(c *Course) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Instructor != nil {
		c.Instructor = *p.Instructor
	}
	if p.Thumbnail != nil {
		c.Thumbnail = *p.Thumbnail
	}
	if p.Difficulty != nil {
		c.Difficulty = *p.Difficulty
	}
	if p.Tags != nil {
		c.Tags = cloneStrings(*p.Tags)
	}
	if p.IsPublished != nil {
		c.IsPublished = *p.IsPublished
	}
	if p.OrganizationID != nil {
		c.OrganizationID = *p.OrganizationID
	}
	if p.CollectionIDs != nil {
		c.CollectionIDs = cloneStrings(*p.CollectionIDs)
	}
	if len(p.CustomFields) > 0 {
		merged := make(map[string]any, len(c.CustomFields)+len(p.CustomFields))
		maps.Copy(merged, c.CustomFields)
		maps.Copy(merged, p.CustomFields)
		c.CustomFields = merged
	}
}

// ItemInput carries the caller-supplied fields of a new item. Type may be left
// empty, in which case it is taken from Content.
type ItemInput struct {
	Title    string
	Type     ItemType
	Content  Content
	Duration *int
}

// ItemPatch is a partial item update. A non-nil Content replaces the payload
// and, with it, the item type.
type ItemPatch struct {
	Title    *string
	Type     *ItemType
	Content  Content
	Duration *int
}

type CourseFilter struct {
	Published  *bool
	Tag        string
	Difficulty Difficulty
}

func (f CourseFilter) Match(c *Course) bool {
	if f.Published != nil && c.IsPublished != *f.Published {
		return false
	}
	if f.Difficulty != "" && c.Difficulty != f.Difficulty {
		return false
	}
	if f.Tag != "" {
		for _, t := range c.Tags {
			if t == f.Tag {
				return true
			}
		}
		return false
	}
	return true
}

type ItemSort string

const (
	SortByOrder      ItemSort = "order"
	SortByDuration   ItemSort = "duration"
	SortByType       ItemSort = "type"
	SortByCompletion ItemSort = "completion"
)

// ItemQuery drives the playlist view of a course.
type ItemQuery struct {
	Type          ItemType
	HideCompleted bool
	Search        string
	SortBy        ItemSort
}

type Stats struct {
	Courses       int              `json:"courses"`
	Published     int              `json:"published"`
	Items         int              `json:"items"`
	ItemsByType   map[ItemType]int `json:"itemsByType"`
	TotalDuration int              `json:"totalDuration"`
}
