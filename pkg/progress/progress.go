package progress

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"coursedash/pkg/kfka"
	"coursedash/pkg/store"
)

type Handler struct {
	Store  *store.Store
	Events *kfka.Publisher
	Log    zerolog.Logger
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courseID, itemID := vars["courseID"], vars["itemID"]
	course, ok := h.Store.GetCourse(courseID)
	if !ok {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	item, _, ok := course.Item(itemID)
	if !ok {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	if err := h.Store.MarkItemComplete(r.Context(), courseID, itemID); err != nil {
		h.Log.Error().Err(err).Str("course_id", courseID).Str("item_id", itemID).Msg("mark complete")
		http.Error(w, "could not save progress", http.StatusInternalServerError)
		return
	}
	p, _ := h.Store.GetUserProgress(courseID)
	h.Events.Quiz(kfka.NotificationQuiz{
		CourseID:   courseID,
		ItemID:     itemID,
		CourseName: course.Title,
		Item:       item.Title,
		Progress:   p.ProgressPercentage,
		Event:      kfka.ItemCompleted,
	})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Store.GetUserProgress(mux.Vars(r)["courseID"])
	if !ok {
		http.Error(w, "no progress for this course", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) ListProgress(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Store.ListProgress())
}
