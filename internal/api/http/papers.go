package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/paperforge/paperforge/internal/paper"
)

// ListPapersHandler lists saved papers, filterable by school and a free-text
// query over subject/class/exam type.
func ListPapersHandler(store paper.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		offset := parseIntDefault(r.URL.Query().Get("offset"), 0)

		list, err := store.ListPapers(r.Context(), paper.ListOpts{
			Q:        q,
			SchoolID: strings.TrimSpace(r.URL.Query().Get("schoolId")),
			Limit:    limit,
			Offset:   offset,
		})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	}
}

// GetPaperHandler returns the full persisted document, flattened projection
// and tree snapshot included.
func GetPaperHandler(store paper.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := store.GetPaper(r.Context(), chi.URLParam(r, "paperID"))
		if err != nil {
			if errors.Is(err, paper.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	}
}

func DeletePaperHandler(store paper.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.DeletePaper(r.Context(), chi.URLParam(r, "paperID"))
		if err != nil {
			if errors.Is(err, paper.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ApprovePaperHandler flips an unapproved paper to the Generated status.
func ApprovePaperHandler(store paper.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "paperID")
		if err := store.SetStatus(r.Context(), id, paper.StatusGenerated); err != nil {
			if errors.Is(err, paper.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id, "status": paper.StatusGenerated})
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
