package paper

import "time"

// The persisted paper document. It carries two renderings of the same paper:
// Sections is the tree-shaped snapshot the editor reloads from, Questions is
// the flattened, numbered projection written for downstream readers. The
// flattened list is write-only output; reload never hydrates from it.
type Document struct {
	ID            string         `json:"id" bson:"_id"`
	Class         string         `json:"class" bson:"class"`
	CreatedAt     string         `json:"createdAt" bson:"createdAt"`
	ExamType      string         `json:"examType" bson:"examType"`
	Questions     []FlatQuestion `json:"questions" bson:"questions"`
	Sections      []Section      `json:"sections" bson:"sections"`
	SchoolID      string         `json:"schoolId" bson:"schoolId"`
	SchoolName    string         `json:"schoolName" bson:"schoolName"`
	Status        string         `json:"status" bson:"status"`
	Subject       string         `json:"subject" bson:"subject"`
	TotalDuration string         `json:"totalDuration" bson:"totalDuration"`
	TotalMarks    int            `json:"totalMarks" bson:"totalMarks"`
}

// FlatQuestion is one record of the flattened projection. question_number is
// 1-based within its section. Fields irrelevant to the question type are
// omitted here even though the tree retains them.
type FlatQuestion struct {
	Chapter        string        `json:"chapter" bson:"chapter"`
	Marks          int           `json:"marks" bson:"marks"`
	Question       string        `json:"question" bson:"question"`
	QuestionNumber int           `json:"question_number" bson:"question_number"`
	QuestionType   string        `json:"question_type" bson:"question_type"`
	Options        []string      `json:"options,omitempty" bson:"options,omitempty"`
	CorrectOption  string        `json:"correct_option,omitempty" bson:"correct_option,omitempty"`
	Subparts       []FlatSubpart `json:"subparts,omitempty" bson:"subparts,omitempty"`
	Pairs          []Pair        `json:"pairs,omitempty" bson:"pairs,omitempty"`
}

// FlatSubpart mirrors the subpart record shape of the persisted contract.
// subpart_number is the positional letter (a, b, c, ...).
type FlatSubpart struct {
	CorrectOption string   `json:"correct_option" bson:"correct_option"`
	Marks         int      `json:"marks" bson:"marks"`
	Options       []string `json:"options" bson:"options"`
	Question      string   `json:"question" bson:"question"`
	SubpartNumber string   `json:"subpart_number" bson:"subpart_number"`
}

// DefaultChapter is used when a question has no chapter attribution.
const DefaultChapter = "General"

// Letter returns the uppercase ordinal label for position n: 0 -> A, 25 -> Z,
// 26 -> AA.
func Letter(n int) string {
	return letter(n, 'A')
}

// SubpartLetter returns the lowercase ordinal label for position n: 0 -> a.
func SubpartLetter(n int) string {
	return letter(n, 'a')
}

func letter(n int, base byte) string {
	s := ""
	for {
		s = string(base+byte(n%26)) + s
		n = n/26 - 1
		if n < 0 {
			return s
		}
	}
}

// Flatten produces the write-time projection of the tree: every question in
// section-then-position order, numbered 1-based per section, subparts labelled
// by position.
func Flatten(sections []Section) []FlatQuestion {
	out := []FlatQuestion{}
	for _, sec := range sections {
		for i, q := range sec.Questions {
			fq := FlatQuestion{
				Chapter:        DefaultChapter,
				Marks:          q.Marks,
				Question:       q.Question,
				QuestionNumber: i + 1,
				QuestionType:   q.Type,
			}
			switch q.Type {
			case TypeMCQ:
				fq.Options = append([]string{}, q.Options...)
				fq.CorrectOption = q.CorrectAnswer
			case TypeFillBlanks:
				fq.CorrectOption = q.CorrectAnswer
			case TypeMatchFollowing:
				fq.Pairs = append([]Pair{}, q.Pairs...)
			}
			for j, sp := range q.Subparts {
				fq.Subparts = append(fq.Subparts, FlatSubpart{
					CorrectOption: "",
					Marks:         sp.Marks,
					Options:       []string{},
					Question:      sp.Question,
					SubpartNumber: SubpartLetter(j),
				})
			}
			out = append(out, fq)
		}
	}
	return out
}

// BuildDocument assembles a persisted document from an editing session's
// metadata and current tree.
type Meta struct {
	Class         string
	ExamType      string
	SchoolID      string
	SchoolName    string
	Subject       string
	TotalDuration string
}

func BuildDocument(id string, meta Meta, sections []Section, now time.Time) Document {
	return Document{
		ID:            id,
		Class:         meta.Class,
		CreatedAt:     now.UTC().Format(time.RFC3339),
		ExamType:      meta.ExamType,
		Questions:     Flatten(sections),
		Sections:      Clone(sections),
		SchoolID:      meta.SchoolID,
		SchoolName:    meta.SchoolName,
		Status:        StatusUnapproved,
		Subject:       meta.Subject,
		TotalDuration: meta.TotalDuration,
		TotalMarks:    TotalMarks(sections),
	}
}
