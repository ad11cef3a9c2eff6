package courses

import "coursedash/pkg/models"

type courseRequest struct {
	Title          string            `json:"title" validate:"max=200"`
	Description    string            `json:"description"`
	Instructor     string            `json:"instructor" validate:"max=200"`
	Thumbnail      string            `json:"thumbnail"`
	Difficulty     models.Difficulty `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Tags           []string          `json:"tags" validate:"dive,max=50"`
	IsPublished    bool              `json:"isPublished"`
	OrganizationID string            `json:"organizationId"`
	CollectionIDs  []string          `json:"collectionIds"`
	CustomFields   map[string]any    `json:"customFields"`
}

func (req courseRequest) input() models.CourseInput {
	return models.CourseInput{
		Title:          req.Title,
		Description:    req.Description,
		Instructor:     req.Instructor,
		Thumbnail:      req.Thumbnail,
		Difficulty:     req.Difficulty,
		Tags:           req.Tags,
		IsPublished:    req.IsPublished,
		OrganizationID: req.OrganizationID,
		CollectionIDs:  req.CollectionIDs,
		CustomFields:   req.CustomFields,
	}
}

// coursePatchRequest only touches the fields present in the body.
type coursePatchRequest struct {
	Title          *string            `json:"title" validate:"omitempty,max=200"`
	Description    *string            `json:"description"`
	Instructor     *string            `json:"instructor" validate:"omitempty,max=200"`
	Thumbnail      *string            `json:"thumbnail"`
	Difficulty     *models.Difficulty `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Tags           *[]string          `json:"tags"`
	IsPublished    *bool              `json:"isPublished"`
	OrganizationID *string            `json:"organizationId"`
	CollectionIDs  *[]string          `json:"collectionIds"`
	CustomFields   map[string]any     `json:"customFields"`
}

func (req coursePatchRequest) patch() models.CoursePatch {
	return models.CoursePatch{
		Title:          req.Title,
		Description:    req.Description,
		Instructor:     req.Instructor,
		Thumbnail:      req.Thumbnail,
		Difficulty:     req.Difficulty,
		Tags:           req.Tags,
		IsPublished:    req.IsPublished,
		OrganizationID: req.OrganizationID,
		CollectionIDs:  req.CollectionIDs,
		CustomFields:   req.CustomFields,
	}
}
