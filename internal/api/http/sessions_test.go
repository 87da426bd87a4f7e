package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/paperforge/paperforge/internal/ai"
	"github.com/paperforge/paperforge/internal/paper"
	"github.com/paperforge/paperforge/internal/session"
	"github.com/paperforge/paperforge/internal/suggest"
)

// newTestRouter wires the session and paper routes the way the gateway does,
// without auth, against the in-memory store.
func newTestRouter(svc *suggest.Service) (*chi.Mux, *session.Manager, paper.Store) {
	mgr := session.NewManager()
	store := paper.NewInMemoryStore()

	r := chi.NewRouter()
	r.Post("/sessions", CreateSessionHandler(mgr, store, nil))
	r.Route("/sessions/{sessionID}", func(sr chi.Router) {
		sr.Post("/sections", AddSectionHandler(mgr))
		sr.Patch("/sections/{sectionID}", UpdateSectionHandler(mgr))
		sr.Delete("/sections/{sectionID}", DeleteSectionHandler(mgr))
		sr.Post("/sections/{sectionID}/questions", AddQuestionHandler(mgr))
		sr.Patch("/sections/{sectionID}/questions/{questionID}", UpdateQuestionHandler(mgr))
		sr.Post("/suggestions/import", ImportSuggestionsHandler(mgr))
		sr.Post("/suggestions", FetchSuggestionsHandler(mgr, svc, nil))
		sr.Get("/suggestions", GetSuggestionsHandler(mgr))
		sr.Post("/save", SaveSessionHandler(mgr, store))
	})
	r.Get("/sessions/{sessionID}", GetSessionHandler(mgr))
	r.Get("/papers/{paperID}", GetPaperHandler(store))
	return r, mgr, store
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	} else {
		buf.WriteString("{}")
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s response: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec
}

func TestSessionEditSaveReload(t *testing.T) {
	r, _, _ := newTestRouter(nil)

	// Open a session.
	var view sessionView
	rec := doJSON(t, r, "POST", "/sessions", map[string]any{
		"schoolId": "sch-1", "schoolName": "Hillside", "class": "10",
		"subject": "Maths", "examType": "Final", "totalDuration": "3 hours",
	}, &view)
	if rec.Code != http.StatusOK {
		t.Fatalf("create session: %d %s", rec.Code, rec.Body.String())
	}
	base := "/sessions/" + view.ID

	// Add a section, set its marks, add a question.
	var added struct {
		Section paper.Section `json:"section"`
	}
	doJSON(t, r, "POST", base+"/sections", nil, &added)
	secID := added.Section.ID
	if secID == "" {
		t.Fatal("no section id returned")
	}

	doJSON(t, r, "PATCH", base+"/sections/"+secID,
		fieldUpdate{Field: "marks", Value: 30}, &view)
	if view.TotalMarks != 30 {
		t.Fatalf("total after section marks = %d, want 30", view.TotalMarks)
	}

	doJSON(t, r, "POST", base+"/sections/"+secID+"/questions",
		paper.QuestionDraft{Type: paper.TypeMCQ, Question: "pick one", Marks: 5, Options: []string{"a", "b"}}, &view)
	if len(view.Sections[0].Questions) != 1 {
		t.Fatalf("question not added: %+v", view.Sections)
	}
	// Question marks do not move the paper total.
	if view.TotalMarks != 30 {
		t.Errorf("total after question = %d, want 30", view.TotalMarks)
	}

	// A mutation against an unknown id answers 200 and changes nothing.
	rec = doJSON(t, r, "PATCH", base+"/sections/no-such-id",
		fieldUpdate{Field: "marks", Value: 99}, &view)
	if rec.Code != http.StatusOK || view.TotalMarks != 30 {
		t.Errorf("unresolved id: code=%d total=%d", rec.Code, view.TotalMarks)
	}

	// Save, then reload into a fresh session by paper id.
	var saved struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		TotalMarks int    `json:"totalMarks"`
	}
	doJSON(t, r, "POST", base+"/save", nil, &saved)
	if saved.ID == "" || saved.Status != paper.StatusUnapproved || saved.TotalMarks != 30 {
		t.Fatalf("save reply: %+v", saved)
	}

	var reloaded sessionView
	rec = doJSON(t, r, "POST", "/sessions", map[string]any{"paperId": saved.ID}, &reloaded)
	if rec.Code != http.StatusOK {
		t.Fatalf("reload: %d %s", rec.Code, rec.Body.String())
	}
	if reloaded.TotalMarks != 30 || len(reloaded.Sections) != 1 || len(reloaded.Sections[0].Questions) != 1 {
		t.Fatalf("reloaded view: %+v", reloaded)
	}
	if q := reloaded.Sections[0].Questions[0]; q.Question != "pick one" || len(q.Options) != 2 {
		t.Errorf("question did not survive reload: %+v", q)
	}

	// Saving again keeps the same paper id.
	var saved2 struct {
		ID string `json:"id"`
	}
	doJSON(t, r, "POST", "/sessions/"+reloaded.ID+"/save", nil, &saved2)
	if saved2.ID != saved.ID {
		t.Errorf("resave id = %q, want %q", saved2.ID, saved.ID)
	}
}

func TestCreateSessionUnknownPaper(t *testing.T) {
	r, mgr, _ := newTestRouter(nil)

	rec := doJSON(t, r, "POST", "/sessions", map[string]any{"paperId": "ghost"}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
	// The half-created session must not linger.
	var view struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &view)
	if view.ID != "" {
		if _, err := mgr.Get(view.ID); err == nil {
			t.Error("orphan session left behind")
		}
	}
}

func TestSuggestionFetchAndImportFlow(t *testing.T) {
	mock := ai.NewMockProvider(`[
	  {"type": "MCQ", "question": "q1", "marks": 1, "options": ["a","b"], "correctAnswer": "a"},
	  {"type": "Short Answer", "question": "q2"}
	]`)
	r, _, _ := newTestRouter(suggest.NewService(mock, "m"))

	var view sessionView
	doJSON(t, r, "POST", "/sessions", map[string]any{"subject": "Science", "class": "7"}, &view)
	base := "/sessions/" + view.ID

	var added struct {
		Section paper.Section `json:"section"`
	}
	doJSON(t, r, "POST", base+"/sections", nil, &added)

	rec := doJSON(t, r, "POST", base+"/suggestions",
		map[string]any{"sourceText": "photosynthesis chapter"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch: %d %s", rec.Code, rec.Body.String())
	}

	var listed struct {
		Suggestions []suggest.Record `json:"suggestions"`
	}
	doJSON(t, r, "GET", base+"/suggestions?q=mcq", nil, &listed)
	if len(listed.Suggestions) != 1 || listed.Suggestions[0].Question != "q1" {
		t.Fatalf("filtered suggestions: %+v", listed.Suggestions)
	}

	// Import the stored list into the section.
	var result struct {
		Imported   int                   `json:"imported"`
		Errors     []suggest.ImportError `json:"errors"`
		TotalMarks int                   `json:"totalMarks"`
	}
	doJSON(t, r, "POST", base+"/suggestions/import",
		map[string]any{"sectionId": added.Section.ID}, &result)
	if result.Imported != 2 || len(result.Errors) != 0 {
		t.Fatalf("import result: %+v", result)
	}

	doJSON(t, r, "GET", base, nil, &view)
	if len(view.Sections[0].Questions) != 2 {
		t.Errorf("questions after import: %+v", view.Sections[0].Questions)
	}
}

func TestFetchSuggestionsRequiresSource(t *testing.T) {
	mock := ai.NewMockProvider(`[]`)
	r, _, _ := newTestRouter(suggest.NewService(mock, "m"))

	var view sessionView
	doJSON(t, r, "POST", "/sessions", map[string]any{}, &view)

	rec := doJSON(t, r, "POST", "/sessions/"+view.ID+"/suggestions",
		map[string]any{"sourceText": "  "}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", rec.Code)
	}
}

func TestFetchSuggestionsUnconfigured(t *testing.T) {
	r, _, _ := newTestRouter(nil)

	var view sessionView
	doJSON(t, r, "POST", "/sessions", map[string]any{}, &view)

	rec := doJSON(t, r, "POST", "/sessions/"+view.ID+"/suggestions",
		map[string]any{"sourceText": "x"}, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("code = %d, want 503", rec.Code)
	}
}

func TestSessionNotFound(t *testing.T) {
	r, _, _ := newTestRouter(nil)
	for _, tc := range []struct{ method, path string }{
		{"GET", "/sessions/nope"},
		{"POST", "/sessions/nope/sections"},
		{"POST", "/sessions/nope/save"},
	} {
		rec := doJSON(t, r, tc.method, tc.path, nil, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s = %d, want 404", tc.method, tc.path, rec.Code)
		}
	}
}
