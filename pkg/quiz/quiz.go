package quiz

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"coursedash/pkg/kfka"
	"coursedash/pkg/models"
	"coursedash/pkg/store"
)

type AnswerRequest struct {
	SelectedOptions []string `json:"selectedOptions" validate:"required,min=1,dive,required"`
}

// AnswerResponse reveals the correct options and the explanation once the
// attempt is recorded, the way the quiz viewer shows them after submission.
type AnswerResponse struct {
	Attempt        models.MCQAttempt `json:"attempt"`
	CorrectOptions []string          `json:"correctOptions"`
	Explanation    string            `json:"explanation"`
	Progress       float64           `json:"progressPercentage"`
}

// AttemptRequest records an attempt graded by the client.
type AttemptRequest struct {
	QuestionID      string   `json:"questionId" validate:"required"`
	SelectedOptions []string `json:"selectedOptions" validate:"dive,required"`
	IsCorrect       bool     `json:"isCorrect"`
}

type Handler struct {
	Store    *store.Store
	Events   *kfka.Publisher
	Validate *validator.Validate
	Log      zerolog.Logger
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courseID, itemID := vars["courseID"], vars["itemID"]
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, found, err := h.Store.SubmitMCQAnswer(r.Context(), courseID, itemID, req.SelectedOptions)
	switch {
	case !found:
		http.Error(w, "item not found", http.StatusNotFound)
		return
	case errors.Is(err, store.ErrNotMCQ):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.Log.Error().Err(err).Str("course_id", courseID).Str("item_id", itemID).Msg("submit answer")
		http.Error(w, "could not record answer", http.StatusInternalServerError)
		return
	}

	course, _ := h.Store.GetCourse(courseID)
	item, _, _ := course.Item(itemID)
	h.Events.Quiz(kfka.NotificationQuiz{
		CourseID:   courseID,
		ItemID:     itemID,
		CourseName: course.Title,
		Item:       item.Title,
		Selected:   res.Attempt.SelectedOptions,
		IsCorrect:  res.Attempt.IsCorrect,
		Progress:   res.Progress,
		Event:      kfka.AttemptRecorded,
		At:         res.Attempt.AttemptedAt,
	})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AnswerResponse{
		Attempt:        res.Attempt,
		CorrectOptions: res.CorrectOptions,
		Explanation:    res.Explanation,
		Progress:       res.Progress,
	})
}

func (h *Handler) RecordAttempt(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["courseID"]
	course, ok := h.Store.GetCourse(courseID)
	if !ok {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	var req AttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Store.RecordMCQAttempt(r.Context(), courseID, req.QuestionID, req.SelectedOptions, req.IsCorrect); err != nil {
		h.Log.Error().Err(err).Str("course_id", courseID).Msg("record attempt")
		http.Error(w, "could not record attempt", http.StatusInternalServerError)
		return
	}
	progress, _ := h.Store.GetUserProgress(courseID)
	h.Events.Quiz(kfka.NotificationQuiz{
		CourseID:   courseID,
		ItemID:     req.QuestionID,
		CourseName: course.Title,
		Selected:   req.SelectedOptions,
		IsCorrect:  req.IsCorrect,
		Progress:   progress.ProgressPercentage,
		Event:      kfka.AttemptRecorded,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(progress)
}
