package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/paperforge/paperforge/internal/extract"
	"github.com/paperforge/paperforge/internal/storage"
)

// MountSources wires the source-document routes: upload a PDF, read its
// extracted text back.
func MountSources(r chi.Router, bs storage.BlobStore, extractor extract.Extractor) {
	// POST /sources  (multipart form, field "file")
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		key := "sources/" + uuid.NewString() + ".pdf"
		if _, err := bs.Put(key, f); err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"key": key})
	})

	// GET /sources/text?key=sources/<id>.pdf
	r.Get("/text", func(w http.ResponseWriter, r *http.Request) {
		if extractor == nil {
			http.Error(w, "extraction not configured", http.StatusServiceUnavailable)
			return
		}
		key := strings.TrimSpace(r.URL.Query().Get("key"))
		if key == "" {
			http.Error(w, "key required", http.StatusBadRequest)
			return
		}
		text, err := extractor.Extract(r.Context(), key)
		if err != nil {
			http.Error(w, "extraction failed: "+err.Error(), http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"key": key, "text": text})
	})
}
