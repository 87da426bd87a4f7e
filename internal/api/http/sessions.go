package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/paperforge/paperforge/internal/blueprint"
	"github.com/paperforge/paperforge/internal/paper"
	"github.com/paperforge/paperforge/internal/session"
)

type sessionView struct {
	ID              string          `json:"id"`
	Params          session.Params  `json:"params"`
	ActiveSectionID string          `json:"activeSectionId"`
	Sections        []paper.Section `json:"sections"`
	TotalMarks      int             `json:"totalMarks"`
}

func viewOf(s *session.Session) sessionView {
	return sessionView{
		ID:              s.ID,
		Params:          s.ParamsCopy(),
		ActiveSectionID: s.ActiveSectionID(),
		Sections:        s.Sections(),
		TotalMarks:      s.TotalMarks(),
	}
}

// fieldUpdate is the body of every PATCH mutation: one field, one value.
type fieldUpdate struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// CreateSessionHandler opens an editing session. With paperId set, the saved
// tree snapshot is loaded and hydrated; with a blueprint name, an empty
// session is seeded with the blueprint's sections.
func CreateSessionHandler(mgr *session.Manager, store paper.Store, blueprints *blueprint.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			session.Params
			Blueprint string `json:"blueprint,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		s := mgr.Create(req.Params)

		if req.PaperID != "" {
			doc, err := store.GetPaper(r.Context(), req.PaperID)
			if err != nil {
				mgr.Delete(s.ID)
				if errors.Is(err, paper.ErrNotFound) {
					http.Error(w, "paper not found", http.StatusNotFound)
					return
				}
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			s.Hydrate(doc)
		} else if req.Blueprint != "" && blueprints != nil {
			if bp, ok := blueprints.Get(req.Blueprint); ok {
				s.SeedSections(bp.Seed())
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(viewOf(s))
	}
}

// GetSessionHandler returns the current tree and recomputed totals.
func GetSessionHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(viewOf(s))
	}
}

func AddSectionHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		sec := s.AddSection()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"section": sec, "view": viewOf(s)})
	}
}

func UpdateSectionHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		var upd fieldUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		s.UpdateSection(chi.URLParam(r, "sectionID"), upd.Field, upd.Value)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(viewOf(s))
	}
}

func DeleteSectionHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.DeleteSection(chi.URLParam(r, "sectionID"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(viewOf(s))
	}
}

func AddQuestionHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		var draft paper.QuestionDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		s.AddQuestion(chi.URLParam(r, "sectionID"), draft)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(viewOf(s))
	}
}

func UpdateQuestionHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		var upd fieldUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		s.UpdateQuestion(chi.URLParam(r, "sectionID"), chi.URLParam(r, "questionID"), upd.Field, upd.Value)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(viewOf(s))
	}
}

func DeleteQuestionHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.DeleteQuestion(chi.URLParam(r, "sectionID"), chi.URLParam(r, "questionID"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(viewOf(s))
	}
}

func AddSubpartHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.AddSubpart(chi.URLParam(r, "sectionID"), chi.URLParam(r, "questionID"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(viewOf(s))
	}
}

func UpdateSubpartHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		var upd fieldUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		s.UpdateSubpart(chi.URLParam(r, "sectionID"), chi.URLParam(r, "questionID"), chi.URLParam(r, "subpartID"), upd.Field, upd.Value)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(viewOf(s))
	}
}

func DeleteSubpartHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.DeleteSubpart(chi.URLParam(r, "sectionID"), chi.URLParam(r, "questionID"), chi.URLParam(r, "subpartID"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(viewOf(s))
	}
}

// SaveSessionHandler flattens the tree and persists the paper document. A new
// paper gets a fresh id; a reloaded one keeps its id and is upserted.
func SaveSessionHandler(mgr *session.Manager, store paper.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := mgr.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		id := s.PaperID()
		if id == "" {
			id = uuid.NewString()
		}
		doc := s.Snapshot(id, time.Now())
		if err := store.SavePaper(r.Context(), doc); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.BindPaper(id)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         id,
			"status":     doc.Status,
			"totalMarks": doc.TotalMarks,
		})
	}
}
