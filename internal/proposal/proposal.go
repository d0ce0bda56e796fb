// Package proposal defines the plan proposal and review decision schema.
package proposal

import (
	"fmt"
	"sort"
)

// Decision verdict values.
const (
	VerdictApprove = "approve"
	VerdictModify  = "modify"
	VerdictReject  = "reject"
)

// Proposal is a structured implementation plan awaiting human review.
type Proposal struct {
	Title           string   `json:"title"`
	Overview        string   `json:"overview"`
	CurrentState    string   `json:"currentState,omitempty"`
	DesiredEndState string   `json:"desiredEndState,omitempty"`
	OutOfScope      []string `json:"outOfScope,omitempty"`
	Phases          []Phase  `json:"phases"`
	TestingStrategy string   `json:"testingStrategy,omitempty"`
	References      []string `json:"references,omitempty"`
}

// Phase is one numbered unit of work within a Proposal. Phase numbers are
// unique and define display order; they need not be contiguous.
type Phase struct {
	Number              int             `json:"number"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Tasks               []string        `json:"tasks"`
	SuccessCriteria     SuccessCriteria `json:"successCriteria"`
	ImplementationNotes string          `json:"implementationNotes,omitempty"`
}

// SuccessCriteria splits phase acceptance checks into automated and manual.
type SuccessCriteria struct {
	Automated []string `json:"automated"`
	Manual    []string `json:"manual"`
}

// Decision is the reviewer's structured verdict on a Proposal.
type Decision struct {
	Decision       string   `json:"decision"`
	SelectedPhases []int    `json:"selectedPhases"`
	Priority       string   `json:"priority"`
	Approach       string   `json:"approach"`
	Requirements   []string `json:"requirements"`
	Constraints    []string `json:"constraints"`
	Notes          string   `json:"notes"`
}

// Validate checks structural invariants: a title, at least one phase, and
// unique phase numbers.
func (p *Proposal) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("proposal has no title")
	}
	if len(p.Phases) == 0 {
		return fmt.Errorf("proposal has no phases")
	}

	seen := make(map[int]bool, len(p.Phases))
	for _, ph := range p.Phases {
		if seen[ph.Number] {
			return fmt.Errorf("duplicate phase number %d", ph.Number)
		}
		seen[ph.Number] = true
	}
	return nil
}

// SortedPhases returns the phases ordered by phase number. The receiver is
// not modified.
func (p *Proposal) SortedPhases() []Phase {
	phases := make([]Phase, len(p.Phases))
	copy(phases, p.Phases)
	sort.Slice(phases, func(i, j int) bool {
		return phases[i].Number < phases[j].Number
	})
	return phases
}

// Approved reports whether the decision carries an approve or modify verdict.
func (d *Decision) Approved() bool {
	return d.Decision == VerdictApprove || d.Decision == VerdictModify
}

// Valid checks that the verdict is one of the known values.
func (d *Decision) Valid() error {
	switch d.Decision {
	case VerdictApprove, VerdictModify, VerdictReject:
		return nil
	default:
		return fmt.Errorf("unknown decision %q", d.Decision)
	}
}

// EffectivePhases returns the set of phase numbers the decision covers.
// An empty SelectedPhases means every phase of the proposal is selected;
// this lenient default is applied here, at rendering time, not at
// submission time.
func (d *Decision) EffectivePhases(p *Proposal) map[int]bool {
	selected := make(map[int]bool)
	if len(d.SelectedPhases) == 0 {
		for _, ph := range p.Phases {
			selected[ph.Number] = true
		}
		return selected
	}
	for _, n := range d.SelectedPhases {
		selected[n] = true
	}
	return selected
}
