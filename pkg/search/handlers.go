package search

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// Handler serves the search routes. A nil Index means search is not configured.
type Handler struct {
	Index Indexer
}

func (h *Handler) SearchCourses(w http.ResponseWriter, r *http.Request) {
	if h.Index == nil {
		http.Error(w, "search is not configured", http.StatusServiceUnavailable)
		return
	}
	q := r.URL.Query().Get("q")
	results, err := h.Index.SearchCourses(r.Context(), q, deep(r))
	if err != nil {
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

func (h *Handler) SearchItems(w http.ResponseWriter, r *http.Request) {
	if h.Index == nil {
		http.Error(w, "search is not configured", http.StatusServiceUnavailable)
		return
	}
	courseID := mux.Vars(r)["courseID"]
	q := r.URL.Query().Get("q")
	results, err := h.Index.SearchItems(r.Context(), courseID, q, deep(r))
	if err != nil {
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

func deep(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("deep"))
	return v
}
