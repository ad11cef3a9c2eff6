package documents

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Upload is what POST /api/uploads answers. URL is the value to put into
// video, pdf and solution file content.
type Upload struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type Handler struct {
	Objects  ObjectStore
	BaseURL  string
	MaxBytes int64
	Log      zerolog.Logger
}

func (h *Handler) UploadDoc(w http.ResponseWriter, r *http.Request) {
	if h.Objects == nil {
		http.Error(w, "uploads are not configured", http.StatusServiceUnavailable)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	name := objectName(header.Filename)
	if err := h.Objects.Put(r.Context(), name, file, header.Size, contentType); err != nil {
		h.Log.Error().Err(err).Str("object", name).Msg("upload failed")
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}
	h.Log.Info().Str("object", name).Int64("size", header.Size).Msg("file uploaded")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(Upload{
		URL:         strings.TrimRight(h.BaseURL, "/") + "/api/uploads/" + name,
		Name:        name,
		Size:        header.Size,
		ContentType: contentType,
	})
}

func (h *Handler) DownloadDoc(w http.ResponseWriter, r *http.Request) {
	if h.Objects == nil {
		http.Error(w, "uploads are not configured", http.StatusServiceUnavailable)
		return
	}
	name := mux.Vars(r)["name"]
	if !validName(name) {
		http.Error(w, "invalid object name", http.StatusBadRequest)
		return
	}
	obj, info, err := h.Objects.Get(r.Context(), name)
	if errors.Is(err, ErrObjectNotFound) {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Str("object", name).Msg("download failed")
		http.Error(w, "download failed", http.StatusInternalServerError)
		return
	}
	defer obj.Close()

	w.Header().Set("Content-Disposition", "inline; filename=\""+name+"\"")
	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	io.Copy(w, obj)
}

// objectName replaces the client's file name with a uuid, keeping a sane
// extension so browsers still pick the right viewer.
func objectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ "`) {
		ext = ""
	}
	return uuid.NewString() + ext
}

func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`) && !strings.HasPrefix(name, ".")
}
