package paper

import "github.com/google/uuid"

// Mutation engine. Every operation takes the current ordered section sequence
// and returns a fresh sequence reflecting the edit; the input is never
// mutated. Lookups are by id equality, and an id that does not resolve at any
// level yields a structurally-unchanged copy rather than an error.

// QuestionDraft carries the caller-supplied fields for a new question.
// Anything not listed here is dropped.
type QuestionDraft struct {
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Marks         int      `json:"marks"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Pairs         []Pair   `json:"pairs"`
}

// NewQuestion builds a Question from a draft, applying the defaulting rules:
// type falls back to MCQ, marks to 0, options/pairs to empty sequences and
// correctAnswer to the empty string. Subparts always start empty.
func NewQuestion(d QuestionDraft) Question {
	q := Question{
		ID:            uuid.NewString(),
		Type:          d.Type,
		Question:      d.Question,
		Marks:         d.Marks,
		Options:       append([]string{}, d.Options...),
		CorrectAnswer: d.CorrectAnswer,
		Pairs:         append([]Pair{}, d.Pairs...),
		Subparts:      []Subpart{},
	}
	if q.Type == "" {
		q.Type = TypeMCQ
	}
	if q.Marks < 0 {
		q.Marks = 0
	}
	return q
}

// AddSection appends a new empty section named after the current count
// (0 -> "Section A", 1 -> "Section B", ...). It returns the new sequence and
// the created section so callers can mark it active.
func AddSection(sections []Section) ([]Section, Section) {
	out := Clone(sections)
	sec := Section{
		ID:        uuid.NewString(),
		Name:      "Section " + Letter(len(sections)),
		Marks:     0,
		Questions: []Question{},
	}
	return append(out, sec), sec
}

// UpdateSection replaces one field ("name" or "marks") on the matching section.
func UpdateSection(sections []Section, sectionID, field string, value any) []Section {
	out := Clone(sections)
	for i := range out {
		if out[i].ID != sectionID {
			continue
		}
		switch field {
		case "name":
			if s, ok := value.(string); ok {
				out[i].Name = s
			}
		case "marks":
			out[i].Marks = coerceInt(value)
		}
	}
	return out
}

// DeleteSection removes the matching section. Remaining sections keep their
// order and their names; deleting "Section B" does not rename "Section C".
func DeleteSection(sections []Section, sectionID string) []Section {
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		if s.ID == sectionID {
			continue
		}
		out = append(out, cloneSection(s))
	}
	return out
}

// AddQuestion appends a question built from draft to the matching section.
func AddQuestion(sections []Section, sectionID string, draft QuestionDraft) []Section {
	out := Clone(sections)
	for i := range out {
		if out[i].ID == sectionID {
			out[i].Questions = append(out[i].Questions, NewQuestion(draft))
		}
	}
	return out
}

// UpdateQuestion replaces one field on the matching question.
func UpdateQuestion(sections []Section, sectionID, questionID, field string, value any) []Section {
	out := Clone(sections)
	for i := range out {
		if out[i].ID != sectionID {
			continue
		}
		for j := range out[i].Questions {
			if out[i].Questions[j].ID != questionID {
				continue
			}
			setQuestionField(&out[i].Questions[j], field, value)
		}
	}
	return out
}

// DeleteQuestion removes the matching question from its section.
func DeleteQuestion(sections []Section, sectionID, questionID string) []Section {
	out := Clone(sections)
	for i := range out {
		if out[i].ID != sectionID {
			continue
		}
		kept := make([]Question, 0, len(out[i].Questions))
		for _, q := range out[i].Questions {
			if q.ID == questionID {
				continue
			}
			kept = append(kept, q)
		}
		out[i].Questions = kept
	}
	return out
}

// AddSubpart appends an empty subpart (question "", marks 0) to the matching
// question.
func AddSubpart(sections []Section, sectionID, questionID string) []Section {
	out := Clone(sections)
	for i := range out {
		if out[i].ID != sectionID {
			continue
		}
		for j := range out[i].Questions {
			if out[i].Questions[j].ID != questionID {
				continue
			}
			out[i].Questions[j].Subparts = append(out[i].Questions[j].Subparts, Subpart{
				ID:       uuid.NewString(),
				Question: "",
				Marks:    0,
			})
		}
	}
	return out
}

// UpdateSubpart replaces one field ("question" or "marks") on the matching
// subpart.
func UpdateSubpart(sections []Section, sectionID, questionID, subpartID, field string, value any) []Section {
	out := Clone(sections)
	for i := range out {
		if out[i].ID != sectionID {
			continue
		}
		for j := range out[i].Questions {
			if out[i].Questions[j].ID != questionID {
				continue
			}
			for k := range out[i].Questions[j].Subparts {
				if out[i].Questions[j].Subparts[k].ID != subpartID {
					continue
				}
				sp := &out[i].Questions[j].Subparts[k]
				switch field {
				case "question":
					if s, ok := value.(string); ok {
						sp.Question = s
					}
				case "marks":
					sp.Marks = coerceInt(value)
				}
			}
		}
	}
	return out
}

// DeleteSubpart removes the matching subpart.
func DeleteSubpart(sections []Section, sectionID, questionID, subpartID string) []Section {
	out := Clone(sections)
	for i := range out {
		if out[i].ID != sectionID {
			continue
		}
		for j := range out[i].Questions {
			if out[i].Questions[j].ID != questionID {
				continue
			}
			kept := make([]Subpart, 0, len(out[i].Questions[j].Subparts))
			for _, sp := range out[i].Questions[j].Subparts {
				if sp.ID == subpartID {
					continue
				}
				kept = append(kept, sp)
			}
			out[i].Questions[j].Subparts = kept
		}
	}
	return out
}

// setQuestionField applies a single field update. Switching "type" leaves
// options, correctAnswer and pairs untouched; fields irrelevant to the new
// type are retained, only ignored at export time.
func setQuestionField(q *Question, field string, value any) {
	switch field {
	case "type":
		if s, ok := value.(string); ok {
			q.Type = s
		}
	case "question":
		if s, ok := value.(string); ok {
			q.Question = s
		}
	case "marks":
		q.Marks = coerceInt(value)
	case "correctAnswer":
		if s, ok := value.(string); ok {
			q.CorrectAnswer = s
		}
	case "options":
		if opts, ok := coerceStringSlice(value); ok {
			q.Options = opts
		}
	case "pairs":
		if pairs, ok := coercePairs(value); ok {
			q.Pairs = pairs
		}
	}
}

// Clone deep-copies a section sequence.
func Clone(sections []Section) []Section {
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		out = append(out, cloneSection(s))
	}
	return out
}

func cloneSection(s Section) Section {
	qs := make([]Question, 0, len(s.Questions))
	for _, q := range s.Questions {
		qs = append(qs, cloneQuestion(q))
	}
	s.Questions = qs
	return s
}

func cloneQuestion(q Question) Question {
	q.Options = append([]string{}, q.Options...)
	q.Pairs = append([]Pair{}, q.Pairs...)
	q.Subparts = append([]Subpart{}, q.Subparts...)
	return q
}

// coerceInt accepts the numeric shapes a JSON field update can arrive in.
// Negative values clamp to zero; marks are non-negative by contract.
func coerceInt(v any) int {
	var n int
	switch x := v.(type) {
	case int:
		n = x
	case int64:
		n = int(x)
	case float64:
		n = int(x)
	}
	if n < 0 {
		n = 0
	}
	return n
}

func coerceStringSlice(v any) ([]string, bool) {
	switch x := v.(type) {
	case []string:
		return append([]string{}, x...), true
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func coercePairs(v any) ([]Pair, bool) {
	switch x := v.(type) {
	case []Pair:
		return append([]Pair{}, x...), true
	case []any:
		out := make([]Pair, 0, len(x))
		for _, e := range x {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, false
			}
			var p Pair
			p.Term, _ = m["term"].(string)
			p.Definition, _ = m["definition"].(string)
			out = append(out, p)
		}
		return out, true
	}
	return nil, false
}
