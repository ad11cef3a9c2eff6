package items

import (
	"encoding/json"
	"errors"
	"net/http"

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

// GetItems is the course playlist: ?type=, ?hideCompleted=, ?search=, ?sortBy=.
func (h *Handler) GetItems(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query().Get)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	list, ok := h.Store.ListItems(mux.Vars(r)["courseID"], q)
	if !ok {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["courseID"]
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	content, ok := h.decodeContent(w, req.Type, req.Content)
	if !ok {
		return
	}
	itemID, err := h.Store.AddCourseItem(r.Context(), courseID, models.ItemInput{
		Title:    req.Title,
		Type:     req.Type,
		Content:  content,
		Duration: req.Duration,
	})
	if err != nil {
		h.fail(w, err, courseID)
		return
	}
	if itemID == "" {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	item := h.changed(courseID, itemID, kfka.ItemCreated)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	course, ok := h.Store.GetCourse(vars["courseID"])
	if !ok {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	item, _, ok := course.Item(vars["itemID"])
	if !ok {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courseID, itemID := vars["courseID"], vars["itemID"]
	course, ok := h.Store.GetCourse(courseID)
	if !ok {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	current, _, ok := course.Item(itemID)
	if !ok {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}

	var req itemPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	patch := models.ItemPatch{Title: req.Title, Type: req.Type, Duration: req.Duration}
	if len(req.Content) > 0 && string(req.Content) != "null" {
		typ := current.Type
		if req.Type != nil {
			typ = *req.Type
		}
		content, ok := h.decodeContent(w, typ, req.Content)
		if !ok {
			return
		}
		patch.Content = content
	}
	if err := h.Store.UpdateCourseItem(r.Context(), courseID, itemID, patch); err != nil {
		h.fail(w, err, courseID)
		return
	}
	item := h.changed(courseID, itemID, kfka.ItemUpdated)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
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
	if err := h.Store.DeleteCourseItem(r.Context(), courseID, itemID); err != nil {
		h.fail(w, err, courseID)
		return
	}
	if course, ok = h.Store.GetCourse(courseID); ok {
		search.Refresh(h.Index, course, h.Log)
	}
	h.Events.Course(kfka.NotificationCourse{
		CourseID:   courseID,
		ItemID:     itemID,
		CourseName: course.Title,
		Item:       item.Title,
		ItemType:   string(item.Type),
		EventType:  kfka.ItemDeleted,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Reorder takes the full list of item ids in their new order.
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["courseID"]
	course, ok := h.Store.GetCourse(courseID)
	if !ok {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ordered, err := permute(course.Items, req.ItemIDs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Store.ReorderCourseItems(r.Context(), courseID, ordered); err != nil {
		h.fail(w, err, courseID)
		return
	}
	course, _ = h.Store.GetCourse(courseID)
	search.Refresh(h.Index, course, h.Log)
	h.Events.Course(kfka.NotificationCourse{
		CourseID:   courseID,
		CourseName: course.Title,
		EventType:  kfka.ItemsReordered,
	})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(course.Items)
}

func (h *Handler) decodeContent(w http.ResponseWriter, t models.ItemType, raw json.RawMessage) (models.Content, bool) {
	content, err := models.DecodeContent(t, raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	if content == nil {
		http.Error(w, "content is required", http.StatusBadRequest)
		return nil, false
	}
	if err := h.Validate.Struct(content); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return content, true
}

// changed reindexes the course after an item mutation and announces it.
func (h *Handler) changed(courseID, itemID, event string) models.CourseItem {
	course, _ := h.Store.GetCourse(courseID)
	item, _, _ := course.Item(itemID)
	search.Refresh(h.Index, course, h.Log)
	h.Events.Course(kfka.NotificationCourse{
		CourseID:   courseID,
		ItemID:     itemID,
		CourseName: course.Title,
		Item:       item.Title,
		ItemType:   string(item.Type),
		EventType:  event,
	})
	return item
}

func (h *Handler) fail(w http.ResponseWriter, err error, courseID string) {
	switch {
	case errors.Is(err, store.ErrContentMismatch), errors.Is(err, store.ErrMissingContent):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.Log.Error().Err(err).Str("course_id", courseID).Msg("item mutation failed")
		http.Error(w, "could not save item", http.StatusInternalServerError)
	}
}
