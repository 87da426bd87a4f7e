package blueprint

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `name: half-yearly
examType: Half Yearly
duration: 3 hours
sections:
  - name: Objective
    marks: 20
  - marks: 30
  - name: Essay
    marks: -5
`

func writeBlueprint(t *testing.T, dir, file, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, file), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoaderReadsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeBlueprint(t, dir, "half-yearly.yaml", sampleYAML)
	writeBlueprint(t, dir, "unnamed.yml", "examType: Unit Test\nsections:\n  - marks: 10\n")
	writeBlueprint(t, dir, "notes.txt", "ignore me")

	l, err := NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	if len(l.All()) != 2 {
		t.Fatalf("loaded %d blueprints, want 2", len(l.All()))
	}

	bp, ok := l.Get("half-yearly")
	if !ok {
		t.Fatal("half-yearly not found")
	}
	if bp.ExamType != "Half Yearly" || len(bp.Sections) != 3 {
		t.Errorf("blueprint = %+v", bp)
	}

	// A file without a name key falls back to its filename.
	if _, ok := l.Get("unnamed"); !ok {
		t.Error("filename fallback not applied")
	}
}

func TestLoaderMissingDirIsEmpty(t *testing.T) {
	l, err := NewLoader(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	if len(l.All()) != 0 {
		t.Errorf("expected empty loader, got %d", len(l.All()))
	}
}

func TestLoaderRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	writeBlueprint(t, dir, "broken.yaml", "sections: [unclosed")

	if _, err := NewLoader(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSeed(t *testing.T) {
	bp := Blueprint{Sections: []SectionSpec{
		{Name: "Objective", Marks: 20},
		{Marks: 30},
		{Name: "Essay", Marks: -5},
	}}

	sections := bp.Seed()
	if len(sections) != 3 {
		t.Fatalf("seeded %d sections", len(sections))
	}
	if sections[0].Name != "Objective" || sections[0].Marks != 20 {
		t.Errorf("section 0: %+v", sections[0])
	}
	if sections[1].Name != "Section B" {
		t.Errorf("unnamed section fallback = %q", sections[1].Name)
	}
	if sections[2].Marks != 0 {
		t.Errorf("negative marks not clamped: %d", sections[2].Marks)
	}
	if sections[0].ID == "" || sections[0].ID == sections[1].ID {
		t.Errorf("ids not unique: %q %q", sections[0].ID, sections[1].ID)
	}
	if sections[0].Questions == nil {
		t.Error("questions slice not initialized")
	}
}
