package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog"

	"coursedash/pkg/models"
)

const (
	CoursesIndex = "courses"
	ItemsIndex   = "course_items"
)

// Indexer keeps a searchable copy of the catalogue.
type Indexer interface {
	SyncCourse(ctx context.Context, c models.Course) error
	RemoveCourse(ctx context.Context, courseID string) error
	SearchCourses(ctx context.Context, q string, deep bool) ([]map[string]any, error)
	SearchItems(ctx context.Context, courseID, q string, deep bool) ([]map[string]any, error)
}

type Index struct {
	es  *elasticsearch.Client
	log zerolog.Logger
}

func New(es *elasticsearch.Client, log zerolog.Logger) *Index {
	return &Index{es: es, log: log.With().Str("component", "search").Logger()}
}

// SyncCourse indexes the course and replaces every item document it owns, so
// deleted and reordered items are reflected too.
func (x *Index) SyncCourse(ctx context.Context, c models.Course) error {
	if err := x.put(ctx, CoursesIndex, c.ID, courseDoc(c)); err != nil {
		return err
	}
	if err := x.deleteItems(ctx, c.ID); err != nil {
		return err
	}
	for _, it := range c.Items {
		if err := x.put(ctx, ItemsIndex, it.ID, itemDoc(it)); err != nil {
			return err
		}
	}
	return nil
}

func (x *Index) RemoveCourse(ctx context.Context, courseID string) error {
	res, err := x.es.Delete(CoursesIndex, courseID,
		x.es.Delete.WithContext(ctx),
		x.es.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("deleting course %s from index: %w", courseID, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elasticsearch error: %s", res.String())
	}
	return x.deleteItems(ctx, courseID)
}

// Reindex pushes every course, used once at startup.
func (x *Index) Reindex(ctx context.Context, courses []models.Course) error {
	for _, c := range courses {
		if err := x.SyncCourse(ctx, c); err != nil {
			return err
		}
	}
	x.log.Info().Int("courses", len(courses)).Msg("search index rebuilt")
	return nil
}

func (x *Index) SearchCourses(ctx context.Context, q string, deep bool) ([]map[string]any, error) {
	return x.search(ctx, CoursesIndex, courseQuery(q, deep))
}

func (x *Index) SearchItems(ctx context.Context, courseID, q string, deep bool) ([]map[string]any, error) {
	return x.search(ctx, ItemsIndex, itemQuery(courseID, q, deep))
}

func (x *Index) put(ctx context.Context, index, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := x.es.Index(
		index,
		bytes.NewReader(data),
		x.es.Index.WithContext(ctx),
		x.es.Index.WithDocumentID(id),
		x.es.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("indexing %s/%s: %w", index, id, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch error: %s", res.String())
	}
	return nil
}

func (x *Index) deleteItems(ctx context.Context, courseID string) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(map[string]any{"query": courseTerm(courseID)}); err != nil {
		return err
	}
	res, err := x.es.DeleteByQuery(
		[]string{ItemsIndex},
		&buf,
		x.es.DeleteByQuery.WithContext(ctx),
		x.es.DeleteByQuery.WithRefresh(true),
		x.es.DeleteByQuery.WithConflicts("proceed"),
	)
	if err != nil {
		return fmt.Errorf("deleting items of course %s: %w", courseID, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elasticsearch error: %s", res.String())
	}
	return nil
}

func (x *Index) search(ctx context.Context, index string, query map[string]any) ([]map[string]any, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}
	res, err := x.es.Search(
		x.es.Search.WithContext(ctx),
		x.es.Search.WithIndex(index),
		x.es.Search.WithBody(&buf),
		x.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", index, err)
	}
	defer res.Body.Close()
	return readHits(res)
}

func readHits(res *esapi.Response) ([]map[string]any, error) {
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}
	return decodeHits(res.Body)
}

func decodeHits(r io.Reader) ([]map[string]any, error) {
	var body struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	results := make([]map[string]any, 0, len(body.Hits.Hits))
	for _, h := range body.Hits.Hits {
		if h.Source != nil {
			results = append(results, h.Source)
		}
	}
	return results, nil
}

func courseDoc(c models.Course) map[string]any {
	return map[string]any{
		"id":            c.ID,
		"title":         c.Title,
		"description":   c.Description,
		"instructor":    c.Instructor,
		"difficulty":    c.Difficulty,
		"tags":          c.Tags,
		"isPublished":   c.IsPublished,
		"itemCount":     len(c.Items),
		"totalDuration": c.TotalDuration,
		"updatedAt":     c.UpdatedAt,
	}
}

func itemDoc(it models.CourseItem) map[string]any {
	return map[string]any{
		"id":          it.ID,
		"courseId":    it.CourseID,
		"title":       it.Title,
		"type":        it.Type,
		"order":       it.Order,
		"description": describe(it.Content),
	}
}

// describe is the free text of a content payload that deep search looks at.
func describe(c models.Content) string {
	switch v := c.(type) {
	case *models.VideoContent:
		return v.Description
	case *models.MCQQuestion:
		return strings.TrimSpace(v.Question + " " + v.Explanation)
	case *models.CodingQuestion:
		return v.Description
	case *models.PDFContent:
		return v.Description
	}
	return ""
}

func wildcard(field, q string) map[string]any {
	return map[string]any{
		"wildcard": map[string]any{
			field: map[string]any{
				"value":            "*" + q + "*",
				"case_insensitive": true,
			},
		},
	}
}

func courseTerm(courseID string) map[string]any {
	return map[string]any{
		"term": map[string]any{"courseId.keyword": courseID},
	}
}

func textMatch(q string, deep bool) map[string]any {
	should := []any{wildcard("title", q)}
	if deep {
		should = append(should, wildcard("description", q))
	}
	return map[string]any{
		"bool": map[string]any{"should": should},
	}
}

func courseQuery(q string, deep bool) map[string]any {
	return map[string]any{"query": textMatch(q, deep)}
}

func itemQuery(courseID, q string, deep bool) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{courseTerm(courseID), textMatch(q, deep)},
			},
		},
	}
}
