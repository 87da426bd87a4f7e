// Package suggest converts externally generated question suggestions into
// paper questions and wraps the generative endpoint that produces them.
package suggest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paperforge/paperforge/internal/paper"
)

// Record is one candidate question awaiting import. Type and Question are
// required; everything else defaults through the same rules as a manually
// added question.
type Record struct {
	Type          string       `json:"type"`
	Question      string       `json:"question"`
	Marks         int          `json:"marks,omitempty"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"`
	Pairs         []paper.Pair `json:"pairs,omitempty"`
}

// Validate reports why a record cannot be imported, or nil.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return errors.New("missing question text")
	}
	if strings.TrimSpace(r.Type) == "" {
		return errors.New("missing question type")
	}
	return nil
}

// Draft maps the record onto the add-question defaulting path.
func (r Record) Draft() paper.QuestionDraft {
	return paper.QuestionDraft{
		Type:          r.Type,
		Question:      r.Question,
		Marks:         r.Marks,
		Options:       r.Options,
		CorrectAnswer: r.CorrectAnswer,
		Pairs:         r.Pairs,
	}
}

// ErrSectionNotFound is returned when the import target does not exist.
var ErrSectionNotFound = errors.New("target section not found")

// ImportError identifies a rejected record by its position in the submitted
// list.
type ImportError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func (e ImportError) Error() string {
	return fmt.Sprintf("suggestion %d: %s", e.Index, e.Reason)
}

// Import appends every valid record to the target section and collects a
// per-record error for every invalid one; one bad record never blocks the
// rest. The input sections are not mutated.
func Import(sections []paper.Section, sectionID string, records []Record) ([]paper.Section, int, []ImportError) {
	found := false
	for _, s := range sections {
		if s.ID == sectionID {
			found = true
			break
		}
	}
	if !found {
		return paper.Clone(sections), 0, []ImportError{{Index: -1, Reason: ErrSectionNotFound.Error()}}
	}

	out := paper.Clone(sections)
	imported := 0
	var errs []ImportError
	for i, r := range records {
		if err := r.Validate(); err != nil {
			errs = append(errs, ImportError{Index: i, Reason: err.Error()})
			continue
		}
		out = paper.AddQuestion(out, sectionID, r.Draft())
		imported++
	}
	return out, imported, errs
}

// Filter returns the records whose type contains the query, case-insensitive.
// It is a read-only view: the input list is never reordered or mutated, and an
// empty query returns everything.
func Filter(records []Record, query string) []Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]Record{}, records...)
	}
	out := []Record{}
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Type), q) {
			out = append(out, r)
		}
	}
	return out
}
