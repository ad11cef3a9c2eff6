package items

import (
	"encoding/json"
	"fmt"
	"strconv"

	"coursedash/pkg/models"
)

type itemRequest struct {
	Title    string          `json:"title" validate:"max=200"`
	Type     models.ItemType `json:"type" validate:"required,oneof=video mcq coding pdf"`
	Content  json.RawMessage `json:"content"`
	Duration *int            `json:"duration" validate:"omitempty,gte=0"`
}

type itemPatchRequest struct {
	Title    *string          `json:"title" validate:"omitempty,max=200"`
	Type     *models.ItemType `json:"type" validate:"omitempty,oneof=video mcq coding pdf"`
	Content  json.RawMessage  `json:"content"`
	Duration *int             `json:"duration" validate:"omitempty,gte=0"`
}

type orderRequest struct {
	ItemIDs []string `json:"itemIds" validate:"required,unique,dive,required"`
}

// permute returns the course's items in the order given by ids. ids must name
// every item exactly once.
func permute(items []models.CourseItem, ids []string) ([]models.CourseItem, error) {
	if len(ids) != len(items) {
		return nil, fmt.Errorf("expected %d item ids, got %d", len(items), len(ids))
	}
	byID := make(map[string]models.CourseItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	out := make([]models.CourseItem, 0, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown item %s", id)
		}
		delete(byID, id)
		out = append(out, it)
	}
	return out, nil
}

func parseQuery(get func(string) string) (models.ItemQuery, error) {
	q := models.ItemQuery{
		Type:   models.ItemType(get("type")),
		Search: get("search"),
		SortBy: models.ItemSort(get("sortBy")),
	}
	if q.Type != "" && !q.Type.Valid() {
		return q, fmt.Errorf("unknown item type %q", q.Type)
	}
	switch q.SortBy {
	case "", models.SortByOrder, models.SortByDuration, models.SortByType, models.SortByCompletion:
	default:
		return q, fmt.Errorf("unknown sort %q", q.SortBy)
	}
	if v := get("hideCompleted"); v != "" {
		hide, err := strconv.ParseBool(v)
		if err != nil {
			return q, fmt.Errorf("hideCompleted must be a boolean")
		}
		q.HideCompleted = hide
	}
	return q, nil
}
