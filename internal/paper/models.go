package paper

// Question type tags. These strings appear verbatim in persisted papers and in
// generator payloads, so they are never renamed.
const (
	TypeMCQ            = "MCQ"
	TypeShortAnswer    = "Short Answer"
	TypeLongAnswer     = "Long Answer"
	TypeCaseStudy      = "Case Study"
	TypeFillBlanks     = "Fill in the Blanks"
	TypeMatchFollowing = "Match the Following"
)

// QuestionTypes lists every valid question type tag.
var QuestionTypes = []string{
	TypeMCQ,
	TypeShortAnswer,
	TypeLongAnswer,
	TypeCaseStudy,
	TypeFillBlanks,
	TypeMatchFollowing,
}

// ValidType reports whether t is one of the six known type tags.
func ValidType(t string) bool {
	for _, k := range QuestionTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Pair is a term/definition pair for Match the Following questions.
type Pair struct {
	Term       string `json:"term" bson:"term"`
	Definition string `json:"definition" bson:"definition"`
}

// Subpart is a nested sub-question, independently graded. Its display label
// (a, b, c, ...) is derived from position at export time, never stored.
type Subpart struct {
	ID       string `json:"id" bson:"id"`
	Question string `json:"question" bson:"question"`
	Marks    int    `json:"marks" bson:"marks"`
}

// Question is a gradable item. Options, CorrectAnswer and Pairs are only
// meaningful for certain type tags but are always present and are retained
// across type switches; switching type never clears them.
type Question struct {
	ID            string    `json:"id" bson:"id"`
	Type          string    `json:"type" bson:"type"`
	Question      string    `json:"question" bson:"question"`
	Marks         int       `json:"marks" bson:"marks"`
	Options       []string  `json:"options" bson:"options"`
	CorrectAnswer string    `json:"correctAnswer" bson:"correctAnswer"`
	Pairs         []Pair    `json:"pairs" bson:"pairs"`
	Subparts      []Subpart `json:"subparts" bson:"subparts"`
}

// Section is a top-level grouping of questions. Marks is the section's own
// allocation entered by the editor; it is independent of the sum of question
// marks and is the unit of paper-level aggregation.
type Section struct {
	ID        string     `json:"id" bson:"id"`
	Name      string     `json:"name" bson:"name"`
	Marks     int        `json:"marks" bson:"marks"`
	Questions []Question `json:"questions" bson:"questions"`
}

// Paper statuses as stored in persisted documents.
const (
	StatusUnapproved = "unapproved"
	StatusGenerated  = "Generated"
)
