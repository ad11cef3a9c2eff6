package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursedash/pkg/models"
	"coursedash/pkg/quiz"
	"coursedash/pkg/storage"
	"coursedash/pkg/store"
)

type api struct {
	t *testing.T
	h http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()
	s, err := store.Open(context.Background(), storage.NewMemory())
	require.NoError(t, err)
	return &api{t: t, h: New(Deps{Store: s, Log: zerolog.Nop(), MaxUploadBytes: 1 << 20})}
}

func (a *api) do(method, path, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&v), rec.Body.String())
	return v
}

func (a *api) createCourse() models.Course {
	a.t.Helper()
	rec := a.do("POST", "/api/courses", `{"title":"Go basics","difficulty":"beginner","tags":["go"]}`)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Course](a.t, rec)
}

func (a *api) addItem(courseID, body string) models.CourseItem {
	a.t.Helper()
	rec := a.do("POST", "/api/courses/"+courseID+"/items", body)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.CourseItem](a.t, rec)
}

const (
	videoItem = `{"title":"Intro","type":"video","content":{"title":"Intro","url":"http://cdn/intro.mp4","duration":12,"quality":["720p"]}}`
	quizItem  = `{"title":"Check","type":"mcq","content":{"question":"Pick evens","options":[{"id":"a","text":"2","isCorrect":true},{"id":"b","text":"3"}],"explanation":"2 is even","difficulty":"easy"}}`
	pdfItem   = `{"title":"Notes","type":"pdf","content":{"title":"Notes","url":"http://cdn/notes.pdf","pages":3,"size":2048},"duration":4}`
)

func TestHealth(t *testing.T) {
	a := newAPI(t)
	rec := a.do("GET", "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCourseLifecycle(t *testing.T) {
	a := newAPI(t)
	c := a.createCourse()
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, models.Beginner, c.Difficulty)
	assert.Empty(t, c.Items)

	rec := a.do("PUT", "/api/courses/"+c.ID, `{"title":"Go in depth","isPublished":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Course](t, rec)
	assert.Equal(t, "Go in depth", updated.Title)
	assert.Equal(t, []string{"go"}, updated.Tags)

	rec = a.do("GET", "/api/courses?published=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Course](t, rec), 1)

	rec = a.do("GET", "/api/courses?published=false", "")
	assert.Empty(t, decode[[]models.Course](t, rec))

	rec = a.do("DELETE", "/api/courses/"+c.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusNotFound, a.do("GET", "/api/courses/"+c.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, a.do("DELETE", "/api/courses/"+c.ID, "").Code)
}

func TestCourseValidation(t *testing.T) {
	a := newAPI(t)
	assert.Equal(t, http.StatusBadRequest, a.do("POST", "/api/courses", `{"difficulty":"expert"}`).Code)
	assert.Equal(t, http.StatusBadRequest, a.do("POST", "/api/courses", `not json`).Code)
	assert.Equal(t, http.StatusCreated, a.do("POST", "/api/courses", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, a.do("PUT", "/api/courses/missing", `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, a.do("GET", "/api/courses?published=maybe", "").Code)
}

func TestItemsAndProgress(t *testing.T) {
	a := newAPI(t)
	c := a.createCourse()
	video := a.addItem(c.ID, videoItem)
	q := a.addItem(c.ID, quizItem)
	pdf := a.addItem(c.ID, pdfItem)

	assert.Equal(t, 0, video.Order)
	assert.Equal(t, 2, pdf.Order)
	require.NotNil(t, q.Duration)
	assert.Equal(t, 5, *q.Duration)
	assert.IsType(t, &models.MCQQuestion{}, q.Content)

	rec := a.do("GET", "/api/courses/"+c.ID, "")
	course := decode[models.Course](t, rec)
	assert.Equal(t, 12+5+4, course.TotalDuration)

	rec = a.do("GET", "/api/courses/"+c.ID+"/items?sortBy=duration", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]models.CourseItem](t, rec)
	require.Len(t, list, 3)
	assert.Equal(t, video.ID, list[0].ID)

	rec = a.do("POST", "/api/courses/"+c.ID+"/items/"+q.ID+"/answer", `{"selectedOptions":["b"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	answer := decode[quiz.AnswerResponse](t, rec)
	assert.False(t, answer.Attempt.IsCorrect)
	assert.Equal(t, []string{"a"}, answer.CorrectOptions)
	assert.Equal(t, "2 is even", answer.Explanation)

	rec = a.do("POST", "/api/courses/"+c.ID+"/items/"+q.ID+"/answer", `{"selectedOptions":["a"]}`)
	answer = decode[quiz.AnswerResponse](t, rec)
	assert.True(t, answer.Attempt.IsCorrect)
	assert.InDelta(t, 100.0/3, answer.Progress, 1e-9)

	rec = a.do("POST", "/api/courses/"+c.ID+"/items/"+video.ID+"/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[models.UserProgress](t, rec)
	assert.ElementsMatch(t, []string{q.ID, video.ID}, p.CompletedItems)
	assert.InDelta(t, 200.0/3, p.ProgressPercentage, 1e-9)
	assert.Len(t, p.MCQAttempts, 2)

	rec = a.do("GET", "/api/courses/"+c.ID+"/items?hideCompleted=true", "")
	list = decode[[]models.CourseItem](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, pdf.ID, list[0].ID)

	rec = a.do("POST", "/api/courses/"+c.ID+"/items/"+video.ID+"/answer", `{"selectedOptions":["a"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do("GET", "/api/progress", "")
	assert.Len(t, decode[[]models.UserProgress](t, rec), 1)

	assert.Equal(t, http.StatusNoContent, a.do("DELETE", "/api/courses/"+c.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, a.do("GET", "/api/courses/"+c.ID+"/progress", "").Code)
}

func TestUpdateAndDeleteItem(t *testing.T) {
	a := newAPI(t)
	c := a.createCourse()
	video := a.addItem(c.ID, videoItem)

	rec := a.do("PUT", "/api/courses/"+c.ID+"/items/"+video.ID, `{"title":"Welcome","duration":20}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[models.CourseItem](t, rec)
	assert.Equal(t, "Welcome", got.Title)
	assert.Equal(t, 20, *got.Duration)

	rec = a.do("PUT", "/api/courses/"+c.ID+"/items/"+video.ID, `{"content":{"title":"Intro v2","url":"http://cdn/v2.mp4","duration":15}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decode[models.CourseItem](t, rec)
	assert.Equal(t, "Intro v2", got.Content.(*models.VideoContent).Title)

	rec = a.do("PUT", "/api/courses/"+c.ID+"/items/"+video.ID, `{"type":"pdf"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do("DELETE", "/api/courses/"+c.ID+"/items/"+video.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusNotFound, a.do("GET", "/api/courses/"+c.ID+"/items/"+video.ID, "").Code)

	rec = a.do("GET", "/api/courses/"+c.ID, "")
	assert.Zero(t, decode[models.Course](t, rec).TotalDuration)
}

func TestItemValidation(t *testing.T) {
	a := newAPI(t)
	c := a.createCourse()
	path := "/api/courses/" + c.ID + "/items"

	tests := []struct {
		name string
		body string
		code int
	}{
		{"unknown type", `{"type":"audio","content":{}}`, http.StatusBadRequest},
		{"missing content", `{"type":"video"}`, http.StatusBadRequest},
		{"negative duration", `{"type":"video","content":{"duration":-1}}`, http.StatusBadRequest},
		{"bad difficulty", `{"type":"mcq","content":{"options":[],"difficulty":"brutal"}}`, http.StatusBadRequest},
		{"option without id", `{"type":"mcq","content":{"options":[{"text":"x"}]}}`, http.StatusBadRequest},
		{"bad solution type", `{"type":"coding","content":{"solutionFiles":[{"id":"f","type":"zip"}]}}`, http.StatusBadRequest},
		{"ok", `{"type":"coding","content":{"title":"kata"}}`, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, a.do("POST", path, tt.body).Code)
		})
	}

	rec := a.do("POST", "/api/courses/missing/items", videoItem)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReorder(t *testing.T) {
	a := newAPI(t)
	c := a.createCourse()
	first := a.addItem(c.ID, videoItem)
	second := a.addItem(c.ID, quizItem)
	third := a.addItem(c.ID, pdfItem)
	path := "/api/courses/" + c.ID + "/items/order"

	rec := a.do("PUT", path, `{"itemIds":["`+third.ID+`","`+first.ID+`","`+second.ID+`"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decode[[]models.CourseItem](t, rec)
	require.Len(t, list, 3)
	for i, want := range []string{third.ID, first.ID, second.ID} {
		assert.Equal(t, want, list[i].ID)
		assert.Equal(t, i, list[i].Order)
	}

	assert.Equal(t, http.StatusBadRequest, a.do("PUT", path, `{"itemIds":["`+first.ID+`"]}`).Code)
	assert.Equal(t, http.StatusBadRequest, a.do("PUT", path, `{"itemIds":["`+first.ID+`","`+first.ID+`","`+second.ID+`"]}`).Code)
	assert.Equal(t, http.StatusBadRequest, a.do("PUT", path, `{"itemIds":["x","y","z"]}`).Code)
}

func TestRecordAttempt(t *testing.T) {
	a := newAPI(t)
	c := a.createCourse()

	rec := a.do("POST", "/api/courses/"+c.ID+"/attempts", `{"questionId":"q1","selectedOptions":["optA"],"isCorrect":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = a.do("POST", "/api/courses/"+c.ID+"/attempts", `{"questionId":"q1","selectedOptions":["optB"],"isCorrect":false}`)
	p := decode[models.UserProgress](t, rec)
	require.Len(t, p.MCQAttempts, 2)
	assert.True(t, p.MCQAttempts[0].IsCorrect)
	assert.False(t, p.MCQAttempts[1].IsCorrect)
	assert.Zero(t, p.ProgressPercentage)

	assert.Equal(t, http.StatusBadRequest, a.do("POST", "/api/courses/"+c.ID+"/attempts", `{"selectedOptions":["a"]}`).Code)
	assert.Equal(t, http.StatusNotFound, a.do("POST", "/api/courses/missing/attempts", `{"questionId":"q"}`).Code)
}

func TestStats(t *testing.T) {
	a := newAPI(t)
	c := a.createCourse()
	a.addItem(c.ID, videoItem)
	a.addItem(c.ID, quizItem)

	rec := a.do("GET", "/api/courses/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[models.Stats](t, rec)
	assert.Equal(t, 1, st.Courses)
	assert.Equal(t, 2, st.Items)
	assert.Equal(t, 1, st.ItemsByType[models.ItemMCQ])
	assert.Equal(t, 17, st.TotalDuration)
}

func TestOptionalBackendsAreUnavailable(t *testing.T) {
	a := newAPI(t)
	c := a.createCourse()
	assert.Equal(t, http.StatusServiceUnavailable, a.do("GET", "/api/courses/search?q=go", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, a.do("GET", "/api/courses/"+c.ID+"/items/search?q=x", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, a.do("POST", "/api/uploads", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, a.do("GET", "/api/uploads/x.pdf", "").Code)
}
