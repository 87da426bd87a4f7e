package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/paperforge/paperforge/internal/extract"
	"github.com/paperforge/paperforge/internal/session"
	"github.com/paperforge/paperforge/internal/suggest"
)

// FetchSuggestionsHandler asks the generative backend for question
// suggestions. The source is either raw text or a stored document key to
// extract first. A fetch that loses the race against a newer fetch on the
// same session is dropped; the tree and the stored suggestion list stay as
// the newer fetch left them.
func FetchSuggestionsHandler(mgr *session.Manager, svc *suggest.Service, extractor extract.Extractor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if svc == nil {
			http.Error(w, "suggestions not configured", http.StatusServiceUnavailable)
			return
		}

		var req struct {
			SourceKey  string `json:"sourceKey,omitempty"`
			SourceText string `json:"sourceText,omitempty"`
			Count      int    `json:"count,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		token := s.BeginSuggestionFetch()

		text := req.SourceText
		if text == "" && req.SourceKey != "" {
			if extractor == nil {
				http.Error(w, "extraction not configured", http.StatusServiceUnavailable)
				return
			}
			text, err = extractor.Extract(r.Context(), req.SourceKey)
			if err != nil {
				http.Error(w, "source extraction failed: "+err.Error(), http.StatusBadGateway)
				return
			}
		}
		if strings.TrimSpace(text) == "" {
			http.Error(w, "source text required", http.StatusBadRequest)
			return
		}

		p := s.ParamsCopy()
		records, err := svc.Fetch(r.Context(), suggest.FetchParams{
			Subject:    p.Subject,
			Class:      p.Class,
			SourceText: text,
			Count:      req.Count,
		})
		if err != nil {
			if errors.Is(err, suggest.ErrMalformedResponse) {
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			http.Error(w, "suggestion fetch failed: "+err.Error(), http.StatusBadGateway)
			return
		}

		if !s.CompleteSuggestionFetch(token, records) {
			http.Error(w, "superseded by a newer fetch", http.StatusConflict)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"suggestions": records})
	}
}

// GetSuggestionsHandler returns the session's stored suggestion list,
// optionally filtered by a case-insensitive substring match on type.
func GetSuggestionsHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"suggestions": s.Suggestions(r.URL.Query().Get("q")),
		})
	}
}

// ImportSuggestionsHandler appends suggestion records to a target section.
// With no records in the body, the session's stored list (optionally
// filtered) is imported. Invalid records are reported per item; the valid
// rest still import.
func ImportSuggestionsHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		var req struct {
			SectionID string           `json:"sectionId"`
			Filter    string           `json:"filter,omitempty"`
			Records   []suggest.Record `json:"records,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		records := req.Records
		if records == nil {
			records = s.Suggestions(req.Filter)
		}

		imported, importErrs := s.ImportSuggestions(req.SectionID, records)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"imported":   imported,
			"errors":     importErrs,
			"totalMarks": s.TotalMarks(),
		})
	}
}
