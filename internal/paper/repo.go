package paper

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested paper does not exist.
var ErrNotFound = errors.New("paper not found")

// ListOpts filter and page a paper listing.
type ListOpts struct {
	Q        string // free-text match on subject/class/examType
	SchoolID string
	Limit    int
	Offset   int
}

// Summary is one row of a paper listing.
type Summary struct {
	ID         string `json:"id"`
	Class      string `json:"class"`
	Subject    string `json:"subject"`
	ExamType   string `json:"examType"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	TotalMarks int    `json:"totalMarks"`
}

// Store persists paper documents. Save is an upsert keyed by document id.
type Store interface {
	SavePaper(ctx context.Context, doc Document) error
	GetPaper(ctx context.Context, id string) (Document, error)
	ListPapers(ctx context.Context, opts ListOpts) ([]Summary, error)
	DeletePaper(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id, status string) error
}
