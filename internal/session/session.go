// Package session holds the in-process state of one paper editing session:
// the section tree, the active section, and the last-fetched suggestion list.
// All reads and mutations go through the session object; nothing is ambient.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paperforge/paperforge/internal/paper"
	"github.com/paperforge/paperforge/internal/suggest"
)

// Params are the entry parameters read once at session start.
type Params struct {
	SchoolID   string `json:"schoolId"`
	SchoolName string `json:"schoolName"`
	TeacherID  string `json:"teacherId"`
	Class      string `json:"class"`
	Subject    string `json:"subject"`
	RequestID  string `json:"requestId"`
	PaperID    string `json:"paperId"`
	ExamType   string `json:"examType"`
	Duration   string `json:"totalDuration"`
}

// Session owns one paper tree. Mutations run synchronously under the lock and
// either fully apply or leave the tree exactly as it was; a failed external
// call never half-updates it.
type Session struct {
	mu sync.RWMutex

	ID     string
	Params Params

	sections        []paper.Section
	activeSectionID string

	// fetchGen guards against a stale suggestion fetch being merged after the
	// user has moved on to a different source.
	fetchGen    uint64
	suggestions []suggest.Record
}

// New creates an empty session.
func New(p Params) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Params:   p,
		sections: []paper.Section{},
	}
}

// Hydrate replaces the tree with a previously persisted snapshot. Reload uses
// the tree-shaped snapshot only, never the flattened projection.
func (s *Session) Hydrate(doc paper.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = paper.Clone(doc.Sections)
	s.activeSectionID = ""
	if s.Params.PaperID == "" {
		s.Params.PaperID = doc.ID
	}
}

// Snapshot of the entry parameters. Callers must not read s.Params directly
// while the session is shared; PaperID is rewritten on bind.
func (s *Session) ParamsCopy() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Params
}

// PaperID returns the persisted paper id this session is bound to, if any.
func (s *Session) PaperID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Params.PaperID
}

// BindPaper records the persisted id after the first save so later saves
// upsert the same document.
func (s *Session) BindPaper(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Params.PaperID = id
}

// SeedSections populates an empty session, e.g. from an exam blueprint. It is
// a no-op once the tree has any sections.
func (s *Session) SeedSections(sections []paper.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sections) > 0 {
		return
	}
	s.sections = paper.Clone(sections)
}

// Sections returns a copy of the current tree.
func (s *Session) Sections() []paper.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paper.Clone(s.sections)
}

// TotalMarks recomputes the paper total from current state.
func (s *Session) TotalMarks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paper.TotalMarks(s.sections)
}

// ActiveSectionID returns the section new questions default into.
func (s *Session) ActiveSectionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeSectionID
}

// AddSection appends a section and makes it the active one.
func (s *Session) AddSection() paper.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, sec := paper.AddSection(s.sections)
	s.sections = next
	s.activeSectionID = sec.ID
	return sec
}

func (s *Session) UpdateSection(sectionID, field string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = paper.UpdateSection(s.sections, sectionID, field, value)
}

func (s *Session) DeleteSection(sectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = paper.DeleteSection(s.sections, sectionID)
	if s.activeSectionID == sectionID {
		s.activeSectionID = ""
	}
}

// AddQuestion appends a question to the named section, or to the active
// section when sectionID is empty.
func (s *Session) AddQuestion(sectionID string, draft paper.QuestionDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sectionID == "" {
		sectionID = s.activeSectionID
	}
	s.sections = paper.AddQuestion(s.sections, sectionID, draft)
}

func (s *Session) UpdateQuestion(sectionID, questionID, field string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = paper.UpdateQuestion(s.sections, sectionID, questionID, field, value)
}

func (s *Session) DeleteQuestion(sectionID, questionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = paper.DeleteQuestion(s.sections, sectionID, questionID)
}

func (s *Session) AddSubpart(sectionID, questionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = paper.AddSubpart(s.sections, sectionID, questionID)
}

func (s *Session) UpdateSubpart(sectionID, questionID, subpartID, field string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = paper.UpdateSubpart(s.sections, sectionID, questionID, subpartID, field, value)
}

func (s *Session) DeleteSubpart(sectionID, questionID, subpartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = paper.DeleteSubpart(s.sections, sectionID, questionID, subpartID)
}

// BeginSuggestionFetch invalidates any in-flight fetch and returns the token
// the eventual response must present.
func (s *Session) BeginSuggestionFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchGen++
	return s.fetchGen
}

// CompleteSuggestionFetch stores the fetched records if token still matches
// the current generation. A stale response is dropped and false returned.
func (s *Session) CompleteSuggestionFetch(token uint64, records []suggest.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.fetchGen {
		return false
	}
	s.suggestions = append([]suggest.Record{}, records...)
	return true
}

// Suggestions returns the stored suggestion list filtered by query.
func (s *Session) Suggestions(query string) []suggest.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return suggest.Filter(s.suggestions, query)
}

// ImportSuggestions appends the given records to the target section via the
// importer and reports how many made it plus any per-record rejections.
func (s *Session) ImportSuggestions(sectionID string, records []suggest.Record) (int, []suggest.ImportError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, imported, errs := suggest.Import(s.sections, sectionID, records)
	s.sections = next
	return imported, errs
}

// Snapshot builds the persisted document for the current tree: the flattened
// projection plus the tree snapshot, stamped now.
func (s *Session) Snapshot(id string, now time.Time) paper.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta := paper.Meta{
		Class:         s.Params.Class,
		ExamType:      s.Params.ExamType,
		SchoolID:      s.Params.SchoolID,
		SchoolName:    s.Params.SchoolName,
		Subject:       s.Params.Subject,
		TotalDuration: s.Params.Duration,
	}
	return paper.BuildDocument(id, meta, s.sections, now)
}

// ErrNotFound is returned by the manager for unknown session ids.
var ErrNotFound = errors.New("session not found")

// Manager tracks live editing sessions in memory.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: map[string]*Session{}}
}

func (m *Manager) Create(p Params) *Session {
	s := New(p)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
