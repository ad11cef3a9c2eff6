package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

type ItemType string

const (
	ItemVideo  ItemType = "video"
	ItemMCQ    ItemType = "mcq"
	ItemCoding ItemType = "coding"
	ItemPDF    ItemType = "pdf"
)

// ItemTypes lists the closed set of item types in display order.
var ItemTypes = []ItemType{ItemVideo, ItemMCQ, ItemCoding, ItemPDF}

func (t ItemType) Valid() bool {
	switch t {
	case ItemVideo, ItemMCQ, ItemCoding, ItemPDF:
		return true
	}
	return false
}

type QuestionDifficulty string

const (
	QuestionEasy   QuestionDifficulty = "easy"
	QuestionMedium QuestionDifficulty = "medium"
	QuestionHard   QuestionDifficulty = "hard"
)

// ContentMeta is embedded by every content variant.
type ContentMeta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *ContentMeta) meta() *ContentMeta { return m }

// Content is the payload of a CourseItem. The set of implementations is closed:
// VideoContent, MCQQuestion, CodingQuestion and PDFContent.
type Content interface {
	Kind() ItemType
	meta() *ContentMeta
	clone() Content
}

type VideoContent struct {
	ContentMeta
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Duration    int      `json:"duration" validate:"gte=0"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Subtitles   string   `json:"subtitles,omitempty"`
	Quality     []string `json:"quality"`
}

func (*VideoContent) Kind() ItemType { return ItemVideo }

func (v *VideoContent) clone() Content {
	c := *v
	c.Quality = cloneStrings(v.Quality)
	return &c
}

type MCQOption struct {
	ID        string `json:"id" validate:"required"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type MCQQuestion struct {
	ContentMeta
	Question      string             `json:"question"`
	QuestionImage string             `json:"questionImage,omitempty"`
	Options       []MCQOption        `json:"options" validate:"dive"`
	Explanation   string             `json:"explanation"`
	Difficulty    QuestionDifficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Tags          []string           `json:"tags"`
}

func (*MCQQuestion) Kind() ItemType { return ItemMCQ }

func (q *MCQQuestion) clone() Content {
	c := *q
	if q.Options != nil {
		c.Options = append([]MCQOption(nil), q.Options...)
	}
	c.Tags = cloneStrings(q.Tags)
	return &c
}

type SolutionFileType string

const (
	SolutionTypeFile   SolutionFileType = "file"
	SolutionTypeFolder SolutionFileType = "folder"
	SolutionTypeImage  SolutionFileType = "image"
)

type SolutionFile struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Content  string           `json:"content"`
	Language string           `json:"language"`
	Type     SolutionFileType `json:"type" validate:"omitempty,oneof=file folder image"`
	URL      string           `json:"url,omitempty"`
}

type CodingQuestion struct {
	ContentMeta
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Difficulty    QuestionDifficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	SampleInput   string             `json:"sampleInput"`
	SampleOutput  string             `json:"sampleOutput"`
	Constraints   string             `json:"constraints"`
	SolutionFiles []SolutionFile     `json:"solutionFiles" validate:"dive"`
	Tags          []string           `json:"tags"`
}

func (*CodingQuestion) Kind() ItemType { return ItemCoding }

func (q *CodingQuestion) clone() Content {
	c := *q
	if q.SolutionFiles != nil {
		c.SolutionFiles = append([]SolutionFile(nil), q.SolutionFiles...)
	}
	c.Tags = cloneStrings(q.Tags)
	return &c
}

type PDFContent struct {
	ContentMeta
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Pages       int    `json:"pages" validate:"gte=0"`
	Size        int64  `json:"size" validate:"gte=0"`
}

func (*PDFContent) Kind() ItemType { return ItemPDF }

func (p *PDFContent) clone() Content {
	c := *p
	return &c
}

// CloneContent returns a deep copy of c, or nil.
func CloneContent(c Content) Content {
	if c == nil {
		return nil
	}
	return c.clone()
}

// Meta exposes the identity and timestamps shared by all content variants.
func Meta(c Content) *ContentMeta {
	return c.meta()
}

// DecodeContent decodes raw into the variant selected by t.
func DecodeContent(t ItemType, raw json.RawMessage) (Content, error) {
	var c Content
	switch t {
	case ItemVideo:
		c = &VideoContent{}
	case ItemMCQ:
		c = &MCQQuestion{}
	case ItemCoding:
		c = &CodingQuestion{}
	case ItemPDF:
		c = &PDFContent{}
	default:
		return nil, fmt.Errorf("unknown item type %q", t)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("decoding %s content: %w", t, err)
	}
	return c, nil
}

// EstimateDuration is the default length in minutes of an item carrying c.
func EstimateDuration(c Content) int {
	switch v := c.(type) {
	case *VideoContent:
		return v.Duration
	case *MCQQuestion:
		return 5
	case *CodingQuestion:
		return 30
	case *PDFContent:
		return v.Pages * 2
	}
	return 0
}

// cloneStrings keeps nil and empty apart, so "[]" survives a copy.
func cloneStrings(s []string) []string {
	return slices.Clone(s)
}
