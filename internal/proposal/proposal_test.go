package proposal

import "testing"

func phases(nums ...int) []Phase {
	out := make([]Phase, len(nums))
	for i, n := range nums {
		out[i] = Phase{Number: n, Name: "p", Description: "d"}
	}
	return out
}

func TestValidate(t *testing.T) {
	p := &Proposal{Title: "T", Overview: "o", Phases: phases(1, 2)}
	if err := p.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := (&Proposal{Overview: "o", Phases: phases(1)}).Validate(); err == nil {
		t.Error("expected error for missing title")
	}
	if err := (&Proposal{Title: "T"}).Validate(); err == nil {
		t.Error("expected error for no phases")
	}
	if err := (&Proposal{Title: "T", Phases: phases(1, 1)}).Validate(); err == nil {
		t.Error("expected error for duplicate phase numbers")
	}
}

func TestSortedPhases(t *testing.T) {
	p := &Proposal{Title: "T", Phases: phases(3, 1, 7)}

	sorted := p.SortedPhases()
	want := []int{1, 3, 7}
	for i, ph := range sorted {
		if ph.Number != want[i] {
			t.Errorf("sorted[%d].Number = %d, want %d", i, ph.Number, want[i])
		}
	}

	// Receiver must be untouched.
	if p.Phases[0].Number != 3 {
		t.Error("SortedPhases mutated the proposal")
	}
}

func TestDecisionValid(t *testing.T) {
	for _, verdict := range []string{VerdictApprove, VerdictModify, VerdictReject} {
		d := Decision{Decision: verdict}
		if err := d.Valid(); err != nil {
			t.Errorf("verdict %q should be valid: %v", verdict, err)
		}
	}
	d := Decision{Decision: "maybe"}
	if err := d.Valid(); err == nil {
		t.Error("expected error for unknown verdict")
	}
}

func TestApproved(t *testing.T) {
	if !(&Decision{Decision: VerdictApprove}).Approved() {
		t.Error("approve should count as approved")
	}
	if !(&Decision{Decision: VerdictModify}).Approved() {
		t.Error("modify should count as approved")
	}
	if (&Decision{Decision: VerdictReject}).Approved() {
		t.Error("reject should not count as approved")
	}
}

func TestEffectivePhases_EmptyMeansAll(t *testing.T) {
	p := &Proposal{Title: "T", Phases: phases(1, 2, 5)}
	d := &Decision{Decision: VerdictApprove}

	selected := d.EffectivePhases(p)
	if len(selected) != 3 {
		t.Fatalf("expected 3 selected phases, got %d", len(selected))
	}
	for _, n := range []int{1, 2, 5} {
		if !selected[n] {
			t.Errorf("phase %d should be selected by default", n)
		}
	}
}

func TestEffectivePhases_ExplicitSubset(t *testing.T) {
	p := &Proposal{Title: "T", Phases: phases(1, 2, 3)}
	d := &Decision{Decision: VerdictApprove, SelectedPhases: []int{2}}

	selected := d.EffectivePhases(p)
	if !selected[2] || selected[1] || selected[3] {
		t.Errorf("unexpected selection: %v", selected)
	}
}
