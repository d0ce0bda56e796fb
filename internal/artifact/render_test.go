package artifact

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/drydock-dev/drydock/internal/proposal"
)

func testProposal(phaseNumbers ...int) *proposal.Proposal {
	p := &proposal.Proposal{
		Title:    "Add rate limiting",
		Overview: "Introduce a token bucket limiter.",
	}
	for _, n := range phaseNumbers {
		p.Phases = append(p.Phases, proposal.Phase{
			Number:      n,
			Name:        fmt.Sprintf("Phase name %d", n),
			Description: fmt.Sprintf("Description %d", n),
			Tasks:       []string{fmt.Sprintf("Task %d", n)},
			SuccessCriteria: proposal.SuccessCriteria{
				Automated: []string{"go test ./..."},
				Manual:    []string{"Manual check"},
			},
		})
	}
	return p
}

func TestRenderPlanDocument_PhaseCompleteness(t *testing.T) {
	p := testProposal(1, 2, 3, 4)
	d := &proposal.Decision{
		Decision:       proposal.VerdictApprove,
		SelectedPhases: []int{1, 3},
	}

	doc := RenderPlanDocument(p, d, time.Now())

	// Every phase appears exactly once, included or excluded per selection.
	for _, n := range []int{1, 2, 3, 4} {
		heading := fmt.Sprintf("## Phase %d:", n)
		if got := strings.Count(doc, heading); got != 1 {
			t.Errorf("phase %d heading count = %d, want 1", n, got)
		}
	}
	if !strings.Contains(doc, "## Phase 2: Phase name 2 (excluded from scope)") {
		t.Error("phase 2 should be marked excluded")
	}
	if !strings.Contains(doc, "## Phase 4: Phase name 4 (excluded from scope)") {
		t.Error("phase 4 should be marked excluded")
	}
	if strings.Contains(doc, "## Phase 1: Phase name 1 (excluded") {
		t.Error("phase 1 should not be excluded")
	}

	// Included phases carry their checklists; excluded ones are stubs.
	if !strings.Contains(doc, "- [ ] Task 1") {
		t.Error("included phase missing task checklist")
	}
	if strings.Contains(doc, "- [ ] Task 2") {
		t.Error("excluded phase should not render tasks")
	}
	if !strings.Contains(doc, "- [ ] Automated: go test ./...") {
		t.Error("missing automated success criteria checklist")
	}
}

func TestRenderPlanDocument_EmptySelectionMeansAllPhases(t *testing.T) {
	p := testProposal(1, 2)
	d := &proposal.Decision{Decision: proposal.VerdictApprove}

	doc := RenderPlanDocument(p, d, time.Now())

	if strings.Contains(doc, "excluded from scope") {
		t.Error("empty selection must render every phase in full")
	}
	if !strings.Contains(doc, "- Scope: all phases") {
		t.Error("decision section should record the all-phases scope")
	}
}

func TestRenderPlanDocument_NilDecision(t *testing.T) {
	p := testProposal(1)

	doc := RenderPlanDocument(p, nil, time.Now())

	if strings.Contains(doc, "## Decision") {
		t.Error("nil decision should not render a decision section")
	}
	if !strings.Contains(doc, "## Phase 1: Phase name 1") {
		t.Error("phase should render in full without a decision")
	}
}

func TestRenderPlanDocument_FooterTimestamp(t *testing.T) {
	p := testProposal(1)
	now := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

	doc := RenderPlanDocument(p, nil, now)

	if !strings.Contains(doc, "Generated by drydock on 2026-09-01T14:30:00Z") {
		t.Error("missing generation timestamp footer")
	}
}

func TestRenderPlanDocument_PhasesOrderedByNumber(t *testing.T) {
	p := testProposal(5, 1, 3)

	doc := RenderPlanDocument(p, nil, time.Now())

	i1 := strings.Index(doc, "## Phase 1:")
	i3 := strings.Index(doc, "## Phase 3:")
	i5 := strings.Index(doc, "## Phase 5:")
	if !(i1 < i3 && i3 < i5) {
		t.Errorf("phases out of order: positions 1=%d 3=%d 5=%d", i1, i3, i5)
	}
}

func TestRenderPlanDocument_Deterministic(t *testing.T) {
	p := testProposal(1, 2)
	d := &proposal.Decision{Decision: proposal.VerdictModify, SelectedPhases: []int{2}}
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	a := RenderPlanDocument(p, d, now)
	b := RenderPlanDocument(p, d, now)
	if a != b {
		t.Error("rendering is not deterministic for identical inputs")
	}
}
