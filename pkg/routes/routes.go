package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"coursedash/pkg/courses"
	"coursedash/pkg/documents"
	"coursedash/pkg/items"
	"coursedash/pkg/kfka"
	"coursedash/pkg/middleware"
	"coursedash/pkg/progress"
	"coursedash/pkg/quiz"
	"coursedash/pkg/search"
	"coursedash/pkg/store"
)

// Deps are the collaborators the routes need. Index, Events and Objects may be
// nil when the matching backend is not configured.
type Deps struct {
	Store          *store.Store
	Index          search.Indexer
	Events         *kfka.Publisher
	Objects        documents.ObjectStore
	BaseURL        string
	MaxUploadBytes int64
	Log            zerolog.Logger
}

// New builds the full /api router.
func New(d Deps) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Recover(d.Log), middleware.Logging(d.Log))
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", health).Methods("GET")

	validate := validator.New(validator.WithRequiredStructEnabled())
	SetupCourses(api.PathPrefix("/courses").Subrouter(), d, validate)
	SetupItems(api.PathPrefix("/courses/{courseID}").Subrouter(), d, validate)
	SetupProgress(api, d, validate)
	SetupUploads(api.PathPrefix("/uploads").Subrouter(), d)
	return r
}

func SetupCourses(h *mux.Router, d Deps, validate *validator.Validate) {
	c := &courses.Handler{Store: d.Store, Index: d.Index, Events: d.Events, Validate: validate, Log: d.Log}
	s := &search.Handler{Index: d.Index}
	h.HandleFunc("/search", s.SearchCourses).Methods("GET")
	h.HandleFunc("/stats", c.Stats).Methods("GET")
	h.HandleFunc("", c.GetAll).Methods("GET")
	h.HandleFunc("", c.Create).Methods("POST")
	h.HandleFunc("/{id}", c.GetByID).Methods("GET")
	h.HandleFunc("/{id}", c.Update).Methods("PUT")
	h.HandleFunc("/{id}", c.Delete).Methods("DELETE")
}

func SetupItems(h *mux.Router, d Deps, validate *validator.Validate) {
	i := &items.Handler{Store: d.Store, Index: d.Index, Events: d.Events, Validate: validate, Log: d.Log}
	s := &search.Handler{Index: d.Index}
	h.HandleFunc("/items/search", s.SearchItems).Methods("GET")
	h.HandleFunc("/items/order", i.Reorder).Methods("PUT")
	h.HandleFunc("/items", i.GetItems).Methods("GET")
	h.HandleFunc("/items", i.CreateItem).Methods("POST")
	h.HandleFunc("/items/{itemID}", i.GetItem).Methods("GET")
	h.HandleFunc("/items/{itemID}", i.UpdateItem).Methods("PUT")
	h.HandleFunc("/items/{itemID}", i.DeleteItem).Methods("DELETE")
}

func SetupProgress(h *mux.Router, d Deps, validate *validator.Validate) {
	p := &progress.Handler{Store: d.Store, Events: d.Events, Log: d.Log}
	q := &quiz.Handler{Store: d.Store, Events: d.Events, Validate: validate, Log: d.Log}
	h.HandleFunc("/courses/{courseID}/items/{itemID}/complete", p.Complete).Methods("POST")
	h.HandleFunc("/courses/{courseID}/items/{itemID}/answer", q.SubmitAnswer).Methods("POST")
	h.HandleFunc("/courses/{courseID}/attempts", q.RecordAttempt).Methods("POST")
	h.HandleFunc("/courses/{courseID}/progress", p.GetProgress).Methods("GET")
	h.HandleFunc("/progress", p.ListProgress).Methods("GET")
}

func SetupUploads(h *mux.Router, d Deps) {
	doc := &documents.Handler{Objects: d.Objects, BaseURL: d.BaseURL, MaxBytes: d.MaxUploadBytes, Log: d.Log}
	h.HandleFunc("", doc.UploadDoc).Methods("POST")
	h.HandleFunc("/{name}", doc.DownloadDoc).Methods("GET")
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
