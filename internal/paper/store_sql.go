package paper

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

func placeholder(format string, ns ...int) string {
	args := make([]any, len(ns))
	for i, n := range ns {
		args[i] = n
	}
	return fmt.Sprintf(format, args...)
}

// SQLStore keeps papers in a single table with the tree snapshot and the
// flattened projection as JSON blob columns. Works against SQLite (offline)
// and Postgres with the same statements.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) SavePaper(ctx context.Context, doc Document) error {
	qj, err := json.Marshal(doc.Questions)
	if err != nil {
		return err
	}
	sj, err := json.Marshal(doc.Sections)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO papers
		(id,class,created_at,exam_type,school_id,school_name,status,subject,total_duration,total_marks,questions_json,sections_json)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
		  class=EXCLUDED.class, exam_type=EXCLUDED.exam_type, school_id=EXCLUDED.school_id,
		  school_name=EXCLUDED.school_name, status=EXCLUDED.status, subject=EXCLUDED.subject,
		  total_duration=EXCLUDED.total_duration, total_marks=EXCLUDED.total_marks,
		  questions_json=EXCLUDED.questions_json, sections_json=EXCLUDED.sections_json`,
		doc.ID, doc.Class, doc.CreatedAt, doc.ExamType, doc.SchoolID, doc.SchoolName,
		doc.Status, doc.Subject, doc.TotalDuration, doc.TotalMarks, string(qj), string(sj))
	return err
}

func (s *SQLStore) GetPaper(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,class,created_at,exam_type,school_id,school_name,status,subject,total_duration,total_marks,questions_json,sections_json
		FROM papers WHERE id=$1`, id)
	var doc Document
	var qjson, sjson string
	if err := row.Scan(&doc.ID, &doc.Class, &doc.CreatedAt, &doc.ExamType, &doc.SchoolID,
		&doc.SchoolName, &doc.Status, &doc.Subject, &doc.TotalDuration, &doc.TotalMarks,
		&qjson, &sjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &doc.Questions); err != nil {
		return Document{}, err
	}
	if err := json.Unmarshal([]byte(sjson), &doc.Sections); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (s *SQLStore) ListPapers(ctx context.Context, opts ListOpts) ([]Summary, error) {
	q := `SELECT id,class,subject,exam_type,status,created_at,total_marks FROM papers`
	var conds []string
	var args []any
	n := 1
	if opts.SchoolID != "" {
		conds = append(conds, placeholder("school_id=$%d", n))
		args = append(args, opts.SchoolID)
		n++
	}
	if term := strings.TrimSpace(opts.Q); term != "" {
		conds = append(conds, placeholder("(subject LIKE $%d OR class LIKE $%d OR exam_type LIKE $%d)", n, n+1, n+2))
		like := "%" + term + "%"
		args = append(args, like, like, like)
		n += 3
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"
	if opts.Limit > 0 {
		q += placeholder(" LIMIT $%d", n)
		args = append(args, opts.Limit)
		n++
	}
	if opts.Offset > 0 {
		q += placeholder(" OFFSET $%d", n)
		args = append(args, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.ID, &sm.Class, &sm.Subject, &sm.ExamType, &sm.Status, &sm.CreatedAt, &sm.TotalMarks); err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeletePaper(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM papers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) SetStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE papers SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
