package paper

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memoryStore struct {
	mu     sync.RWMutex
	papers map[string]Document
}

// NewInMemoryStore returns a Store backed by a process-local map, for tests
// and single-machine offline use.
func NewInMemoryStore() Store {
	return &memoryStore{papers: map[string]Document{}}
}

func (m *memoryStore) SavePaper(_ context.Context, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.papers[doc.ID] = doc
	return nil
}

func (m *memoryStore) GetPaper(_ context.Context, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.papers[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (m *memoryStore) ListPapers(_ context.Context, opts ListOpts) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(opts.Q))
	out := []Summary{}
	for _, d := range m.papers {
		if opts.SchoolID != "" && d.SchoolID != opts.SchoolID {
			continue
		}
		if q != "" {
			hay := strings.ToLower(d.Subject + " " + d.Class + " " + d.ExamType)
			if !strings.Contains(hay, q) {
				continue
			}
		}
		out = append(out, Summary{
			ID:         d.ID,
			Class:      d.Class,
			Subject:    d.Subject,
			ExamType:   d.ExamType,
			Status:     d.Status,
			CreatedAt:  d.CreatedAt,
			TotalMarks: d.TotalMarks,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []Summary{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *memoryStore) DeletePaper(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.papers[id]; !ok {
		return ErrNotFound
	}
	delete(m.papers, id)
	return nil
}

func (m *memoryStore) SetStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.papers[id]
	if !ok {
		return ErrNotFound
	}
	doc.Status = status
	m.papers[id] = doc
	return nil
}
