package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/paperforge/paperforge/internal/paper"
)

// ExportXLSXHandler renders the flattened paper projection as a spreadsheet,
// one row per question plus an indented row per subpart.
func ExportXLSXHandler(store paper.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "paperID")
		doc, err := store.GetPaper(r.Context(), id)
		if err != nil {
			if errors.Is(err, paper.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		f, err := buildWorkbook(doc)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="paper-%s.xlsx"`, id))
		if err := f.Write(w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func buildWorkbook(doc paper.Document) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Paper"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	meta := [][]any{
		{"Subject", doc.Subject},
		{"Class", doc.Class},
		{"Exam Type", doc.ExamType},
		{"School", doc.SchoolName},
		{"Duration", doc.TotalDuration},
		{"Total Marks", doc.TotalMarks},
		{"Status", doc.Status},
	}
	row := 1
	for _, m := range meta {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &m); err != nil {
			return nil, err
		}
		row++
	}

	row++
	header := []any{"No.", "Type", "Chapter", "Question", "Marks", "Options", "Answer"}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheet, cell, &header); err != nil {
		return nil, err
	}
	row++

	for _, q := range doc.Questions {
		vals := []any{
			q.QuestionNumber,
			q.QuestionType,
			q.Chapter,
			q.Question,
			q.Marks,
			strings.Join(q.Options, "; "),
			answerColumn(q),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return nil, err
		}
		row++

		for _, sp := range q.Subparts {
			spVals := []any{
				"(" + sp.SubpartNumber + ")",
				"",
				"",
				sp.Question,
				sp.Marks,
				strings.Join(sp.Options, "; "),
				sp.CorrectOption,
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(sheet, cell, &spVals); err != nil {
				return nil, err
			}
			row++
		}
	}

	return f, nil
}

func answerColumn(q paper.FlatQuestion) string {
	if len(q.Pairs) > 0 {
		parts := make([]string, 0, len(q.Pairs))
		for _, p := range q.Pairs {
			parts = append(parts, p.Term+" -> "+p.Definition)
		}
		return strings.Join(parts, "; ")
	}
	return q.CorrectOption
}
