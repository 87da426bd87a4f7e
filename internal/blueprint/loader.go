// Package blueprint loads exam blueprints: per-exam-type templates that seed
// a new paper with its default sections.
package blueprint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/paperforge/paperforge/internal/paper"
)

// SectionSpec is one pre-defined section in a blueprint.
type SectionSpec struct {
	Name  string `yaml:"name"`
	Marks int    `yaml:"marks"`
}

// Blueprint describes the default shape of a paper for one exam type.
type Blueprint struct {
	Name     string        `yaml:"name"`
	ExamType string        `yaml:"examType"`
	Duration string        `yaml:"duration"`
	Sections []SectionSpec `yaml:"sections"`
}

// Seed materializes the blueprint's sections as a fresh tree. Unnamed specs
// fall back to positional lettering.
func (b Blueprint) Seed() []paper.Section {
	out := make([]paper.Section, 0, len(b.Sections))
	for i, spec := range b.Sections {
		name := spec.Name
		if name == "" {
			name = "Section " + paper.Letter(i)
		}
		marks := spec.Marks
		if marks < 0 {
			marks = 0
		}
		out = append(out, paper.Section{
			ID:        uuid.NewString(),
			Name:      name,
			Marks:     marks,
			Questions: []paper.Question{},
		})
	}
	return out
}

// Loader loads and caches blueprints from a directory of YAML files.
type Loader struct {
	mu         sync.RWMutex
	blueprints map[string]Blueprint
}

// NewLoader reads every .yaml/.yml file under rootDir. A missing directory is
// not an error; the loader just stays empty.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{blueprints: map[string]Blueprint{}}
	if rootDir == "" {
		return l, nil
	}
	if _, err := os.Stat(rootDir); os.IsNotExist(err) {
		return l, nil
	}

	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		var bp Blueprint
		if err := yaml.Unmarshal(raw, &bp); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if bp.Name == "" {
			bp.Name = strings.TrimSuffix(info.Name(), ext)
		}
		l.blueprints[bp.Name] = bp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Get returns a blueprint by name.
func (l *Loader) Get(name string) (Blueprint, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	bp, ok := l.blueprints[name]
	return bp, ok
}

// All returns every loaded blueprint.
func (l *Loader) All() []Blueprint {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Blueprint, 0, len(l.blueprints))
	for _, bp := range l.blueprints {
		out = append(out, bp)
	}
	return out
}
