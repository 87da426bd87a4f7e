package paper

import (
	"reflect"
	"testing"
)

func TestAddSectionNaming(t *testing.T) {
	var sections []Section
	for _, want := range []string{"Section A", "Section B", "Section C"} {
		var sec Section
		sections, sec = AddSection(sections)
		if sec.Name != want {
			t.Fatalf("section name = %q, want %q", sec.Name, want)
		}
		if sec.Marks != 0 || len(sec.Questions) != 0 {
			t.Fatalf("new section not empty: %+v", sec)
		}
	}
	if len(sections) != 3 {
		t.Fatalf("len(sections) = %d, want 3", len(sections))
	}
}

func TestIDsUniqueAcrossAdds(t *testing.T) {
	var sections []Section
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		var sec Section
		sections, sec = AddSection(sections)
		if seen[sec.ID] {
			t.Fatalf("duplicate section id %q", sec.ID)
		}
		seen[sec.ID] = true
		for j := 0; j < 4; j++ {
			sections = AddQuestion(sections, sec.ID, QuestionDraft{Question: "q"})
		}
	}
	for _, s := range sections {
		for _, q := range s.Questions {
			if seen[q.ID] {
				t.Fatalf("duplicate question id %q", q.ID)
			}
			seen[q.ID] = true
		}
	}
}

func TestOperationsDoNotMutateInput(t *testing.T) {
	sections, sec := AddSection(nil)
	sections = AddQuestion(sections, sec.ID, QuestionDraft{Question: "orig", Marks: 3})
	snapshot := Clone(sections)

	_ = UpdateSection(sections, sec.ID, "marks", 50)
	_ = UpdateQuestion(sections, sec.ID, sections[0].Questions[0].ID, "question", "changed")
	_ = DeleteSection(sections, sec.ID)
	_ = AddQuestion(sections, sec.ID, QuestionDraft{Question: "other"})

	if !reflect.DeepEqual(sections, snapshot) {
		t.Fatalf("input mutated:\n got %+v\nwant %+v", sections, snapshot)
	}
}

func TestUnresolvedIDsAreSilentNoOps(t *testing.T) {
	sections, sec := AddSection(nil)
	sections = AddQuestion(sections, sec.ID, QuestionDraft{Question: "q1"})
	qID := sections[0].Questions[0].ID

	cases := []func() []Section{
		func() []Section { return UpdateSection(sections, "nope", "marks", 10) },
		func() []Section { return DeleteSection(sections, "nope") },
		func() []Section { return AddQuestion(sections, "nope", QuestionDraft{Question: "x"}) },
		func() []Section { return UpdateQuestion(sections, sec.ID, "nope", "marks", 10) },
		func() []Section { return UpdateQuestion(sections, "nope", qID, "marks", 10) },
		func() []Section { return DeleteQuestion(sections, sec.ID, "nope") },
		func() []Section { return AddSubpart(sections, sec.ID, "nope") },
		func() []Section { return UpdateSubpart(sections, sec.ID, qID, "nope", "marks", 10) },
		func() []Section { return DeleteSubpart(sections, sec.ID, qID, "nope") },
	}
	for i, op := range cases {
		if got := op(); !reflect.DeepEqual(got, sections) {
			t.Errorf("case %d: expected structurally-unchanged copy, got %+v", i, got)
		}
	}
}

func TestQuestionDefaults(t *testing.T) {
	sections, sec := AddSection(nil)
	sections = AddQuestion(sections, sec.ID, QuestionDraft{})
	q := sections[0].Questions[0]

	if q.Type != TypeMCQ {
		t.Errorf("type = %q, want MCQ default", q.Type)
	}
	if q.Marks != 0 || q.CorrectAnswer != "" {
		t.Errorf("unexpected defaults: %+v", q)
	}
	if q.Options == nil || len(q.Options) != 0 {
		t.Errorf("options = %#v, want empty slice", q.Options)
	}
	if q.Pairs == nil || len(q.Pairs) != 0 {
		t.Errorf("pairs = %#v, want empty slice", q.Pairs)
	}
	if q.Subparts == nil || len(q.Subparts) != 0 {
		t.Errorf("subparts = %#v, want empty slice", q.Subparts)
	}
}

func TestTypeSwitchRetainsFields(t *testing.T) {
	sections, sec := AddSection(nil)
	sections = AddQuestion(sections, sec.ID, QuestionDraft{
		Type:          TypeMCQ,
		Question:      "pick one",
		Options:       []string{"a", "b", "c"},
		CorrectAnswer: "b",
		Pairs:         []Pair{{Term: "t", Definition: "d"}},
	})
	qID := sections[0].Questions[0].ID

	sections = UpdateQuestion(sections, sec.ID, qID, "type", TypeShortAnswer)
	sections = UpdateQuestion(sections, sec.ID, qID, "type", TypeMCQ)

	q := sections[0].Questions[0]
	if !reflect.DeepEqual(q.Options, []string{"a", "b", "c"}) {
		t.Errorf("options lost on type switch: %#v", q.Options)
	}
	if q.CorrectAnswer != "b" {
		t.Errorf("correctAnswer lost on type switch: %q", q.CorrectAnswer)
	}
	if !reflect.DeepEqual(q.Pairs, []Pair{{Term: "t", Definition: "d"}}) {
		t.Errorf("pairs lost on type switch: %#v", q.Pairs)
	}
}

func TestDeleteThenAddDoesNotResurrect(t *testing.T) {
	sections, sec := AddSection(nil)
	sections = AddQuestion(sections, sec.ID, QuestionDraft{Question: "first", Marks: 5})
	deletedID := sections[0].Questions[0].ID

	sections = DeleteQuestion(sections, sec.ID, deletedID)
	sections = AddQuestion(sections, sec.ID, QuestionDraft{Question: "second"})

	if n := len(sections[0].Questions); n != 1 {
		t.Fatalf("question count = %d, want 1", n)
	}
	q := sections[0].Questions[0]
	if q.ID == deletedID {
		t.Errorf("deleted id resurrected")
	}
	if q.Question != "second" {
		t.Errorf("question = %q, want %q", q.Question, "second")
	}
}

func TestDeleteSectionKeepsNames(t *testing.T) {
	sections, _ := AddSection(nil)
	sections, b := AddSection(sections)
	sections, _ = AddSection(sections)

	sections = DeleteSection(sections, b.ID)

	if len(sections) != 2 {
		t.Fatalf("len = %d, want 2", len(sections))
	}
	if sections[0].Name != "Section A" || sections[1].Name != "Section C" {
		t.Errorf("names after delete = %q, %q; re-lettering must not happen",
			sections[0].Name, sections[1].Name)
	}
}

func TestTotalMarksTracksSectionMarksOnly(t *testing.T) {
	sections, a := AddSection(nil)
	sections, b := AddSection(sections)
	sections = UpdateSection(sections, a.ID, "marks", 20)
	sections = UpdateSection(sections, b.ID, "marks", 30)
	// Question marks must not feed the paper total.
	sections = AddQuestion(sections, a.ID, QuestionDraft{Question: "q", Marks: 99})

	if got := TotalMarks(sections); got != 50 {
		t.Fatalf("TotalMarks = %d, want 50", got)
	}
	sections = DeleteSection(sections, b.ID)
	if got := TotalMarks(sections); got != 20 {
		t.Fatalf("TotalMarks after delete = %d, want 20", got)
	}
}

func TestMarksUpdateCoercionAndClamp(t *testing.T) {
	sections, sec := AddSection(nil)
	sections = UpdateSection(sections, sec.ID, "marks", float64(25)) // JSON numbers decode as float64
	if sections[0].Marks != 25 {
		t.Errorf("marks = %d, want 25", sections[0].Marks)
	}
	sections = UpdateSection(sections, sec.ID, "marks", -4)
	if sections[0].Marks != 0 {
		t.Errorf("negative marks must clamp to 0, got %d", sections[0].Marks)
	}
}

func TestEditScenario(t *testing.T) {
	sections, sec := AddSection(nil)
	sections = UpdateSection(sections, sec.ID, "marks", 20)

	sections = AddQuestion(sections, sec.ID, QuestionDraft{
		Type:          TypeMCQ,
		Question:      "2+2?",
		Marks:         5,
		Options:       []string{"3", "4"},
		CorrectAnswer: "4",
	})
	if n := len(sections[0].Questions); n != 1 {
		t.Fatalf("question count = %d, want 1", n)
	}
	q := sections[0].Questions[0]
	if q.Type != TypeMCQ || q.Question != "2+2?" || q.Marks != 5 || q.CorrectAnswer != "4" {
		t.Fatalf("question fields wrong: %+v", q)
	}
	if !reflect.DeepEqual(q.Options, []string{"3", "4"}) || len(q.Subparts) != 0 {
		t.Fatalf("question fields wrong: %+v", q)
	}

	sections = AddSubpart(sections, sec.ID, q.ID)
	sps := sections[0].Questions[0].Subparts
	if len(sps) != 1 || sps[0].Question != "" || sps[0].Marks != 0 {
		t.Fatalf("subpart after add = %+v", sps)
	}

	sections = DeleteSection(sections, sec.ID)
	if len(sections) != 0 {
		t.Fatalf("sections after delete = %+v", sections)
	}
	if TotalMarks(sections) != 0 {
		t.Fatalf("TotalMarks = %d, want 0", TotalMarks(sections))
	}
}

func TestSubpartLifecycle(t *testing.T) {
	sections, sec := AddSection(nil)
	sections = AddQuestion(sections, sec.ID, QuestionDraft{Question: "main"})
	qID := sections[0].Questions[0].ID

	sections = AddSubpart(sections, sec.ID, qID)
	sections = AddSubpart(sections, sec.ID, qID)
	spID := sections[0].Questions[0].Subparts[0].ID

	sections = UpdateSubpart(sections, sec.ID, qID, spID, "question", "part one")
	sections = UpdateSubpart(sections, sec.ID, qID, spID, "marks", 2)
	sp := sections[0].Questions[0].Subparts[0]
	if sp.Question != "part one" || sp.Marks != 2 {
		t.Fatalf("subpart after updates = %+v", sp)
	}

	sections = DeleteSubpart(sections, sec.ID, qID, spID)
	sps := sections[0].Questions[0].Subparts
	if len(sps) != 1 || sps[0].ID == spID {
		t.Fatalf("subparts after delete = %+v", sps)
	}
}
