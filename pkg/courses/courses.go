package courses

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"coursedash/pkg/kfka"
	"coursedash/pkg/models"
	"coursedash/pkg/search"
	"coursedash/pkg/store"
)

type Handler struct {
	Store    *store.Store
	Index    search.Indexer
	Events   *kfka.Publisher
	Validate *validator.Validate
	Log      zerolog.Logger
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, err := h.Store.CreateCourse(r.Context(), req.input())
	if err != nil {
		h.Log.Error().Err(err).Msg("create course")
		http.Error(w, "could not create course", http.StatusInternalServerError)
		return
	}
	course, _ := h.Store.GetCourse(id)
	search.Refresh(h.Index, course, h.Log)
	h.Events.Course(kfka.NotificationCourse{
		CourseID:    course.ID,
		CourseName:  course.Title,
		Description: course.Description,
		EventType:   kfka.CourseCreated,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(course)
}

// GetAll lists courses, optionally filtered by ?published=, ?tag= and ?difficulty=.
func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f models.CourseFilter
	if v := q.Get("published"); v != "" {
		published, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "published must be a boolean", http.StatusBadRequest)
			return
		}
		f.Published = &published
	}
	f.Tag = q.Get("tag")
	f.Difficulty = models.Difficulty(q.Get("difficulty"))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Store.ListCourses(f))
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	course, ok := h.Store.GetCourse(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(course)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := h.Store.GetCourse(id); !ok {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	var req coursePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Store.UpdateCourse(r.Context(), id, req.patch()); err != nil {
		h.Log.Error().Err(err).Str("course_id", id).Msg("update course")
		http.Error(w, "could not update course", http.StatusInternalServerError)
		return
	}
	course, _ := h.Store.GetCourse(id)
	search.Refresh(h.Index, course, h.Log)
	h.Events.Course(kfka.NotificationCourse{
		CourseID:   course.ID,
		CourseName: course.Title,
		EventType:  kfka.CourseUpdated,
	})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(course)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	course, ok := h.Store.GetCourse(id)
	if !ok {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	if err := h.Store.DeleteCourse(r.Context(), id); err != nil {
		h.Log.Error().Err(err).Str("course_id", id).Msg("delete course")
		http.Error(w, "could not delete course", http.StatusInternalServerError)
		return
	}
	search.Forget(h.Index, id, h.Log)
	h.Events.Course(kfka.NotificationCourse{
		CourseID:   id,
		CourseName: course.Title,
		EventType:  kfka.CourseDeleted,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Store.Stats())
}
