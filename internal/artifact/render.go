// Package artifact renders approved proposals into persisted plan documents.
package artifact

import (
	"fmt"
	"strings"
	"time"

	"github.com/drydock-dev/drydock/internal/proposal"
)

// RenderPlanDocument renders a Proposal and the reviewer's Decision into a
// markdown plan document. It is a deterministic pure function of its inputs.
//
// Every phase of the proposal appears in the output: phases in the effective
// selected set are rendered in full, the rest as explicitly marked
// "excluded from scope" stubs, preserving an audit trail of what was
// proposed versus what was approved. A nil decision renders all phases in
// full with no decision section.
func RenderPlanDocument(p *proposal.Proposal, d *proposal.Decision, now time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# %s\n\n", p.Title))

	b.WriteString("## Overview\n\n")
	b.WriteString(strings.TrimSpace(p.Overview))
	b.WriteString("\n\n")

	if p.CurrentState != "" {
		b.WriteString("## Current State\n\n")
		b.WriteString(strings.TrimSpace(p.CurrentState))
		b.WriteString("\n\n")
	}
	if p.DesiredEndState != "" {
		b.WriteString("## Desired End State\n\n")
		b.WriteString(strings.TrimSpace(p.DesiredEndState))
		b.WriteString("\n\n")
	}
	if len(p.OutOfScope) > 0 {
		b.WriteString("## Out of Scope\n\n")
		for _, item := range p.OutOfScope {
			b.WriteString(fmt.Sprintf("- %s\n", item))
		}
		b.WriteString("\n")
	}

	if d != nil {
		writeDecisionSection(&b, d)
	}

	selected := allPhases(p)
	if d != nil {
		selected = d.EffectivePhases(p)
	}

	for _, phase := range p.SortedPhases() {
		writePhase(&b, phase, selected[phase.Number])
	}

	if p.TestingStrategy != "" {
		b.WriteString("## Testing Strategy\n\n")
		b.WriteString(strings.TrimSpace(p.TestingStrategy))
		b.WriteString("\n\n")
	}
	if len(p.References) > 0 {
		b.WriteString("## References\n\n")
		for _, ref := range p.References {
			b.WriteString(fmt.Sprintf("- %s\n", ref))
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	b.WriteString(fmt.Sprintf("Generated by drydock on %s\n", now.UTC().Format(time.RFC3339)))

	return b.String()
}

func writeDecisionSection(b *strings.Builder, d *proposal.Decision) {
	b.WriteString("## Decision\n\n")
	b.WriteString(fmt.Sprintf("- Verdict: %s\n", d.Decision))
	if d.Priority != "" {
		b.WriteString(fmt.Sprintf("- Priority: %s\n", d.Priority))
	}
	if d.Approach != "" {
		b.WriteString(fmt.Sprintf("- Approach: %s\n", d.Approach))
	}
	if len(d.SelectedPhases) == 0 {
		b.WriteString("- Scope: all phases\n")
	} else {
		nums := make([]string, len(d.SelectedPhases))
		for i, n := range d.SelectedPhases {
			nums[i] = fmt.Sprintf("%d", n)
		}
		b.WriteString(fmt.Sprintf("- Scope: phases %s\n", strings.Join(nums, ", ")))
	}
	for _, req := range d.Requirements {
		b.WriteString(fmt.Sprintf("- Requirement: %s\n", req))
	}
	for _, con := range d.Constraints {
		b.WriteString(fmt.Sprintf("- Constraint: %s\n", con))
	}
	if d.Notes != "" {
		b.WriteString(fmt.Sprintf("- Notes: %s\n", d.Notes))
	}
	b.WriteString("\n")
}

func writePhase(b *strings.Builder, phase proposal.Phase, included bool) {
	if !included {
		b.WriteString(fmt.Sprintf("## Phase %d: %s (excluded from scope)\n\n", phase.Number, phase.Name))
		b.WriteString("_Excluded from this plan by the reviewer. Kept for the record of what was proposed._\n\n")
		return
	}

	b.WriteString(fmt.Sprintf("## Phase %d: %s\n\n", phase.Number, phase.Name))
	b.WriteString(strings.TrimSpace(phase.Description))
	b.WriteString("\n\n")

	if len(phase.Tasks) > 0 {
		b.WriteString("### Tasks\n\n")
		for _, task := range phase.Tasks {
			b.WriteString(fmt.Sprintf("- [ ] %s\n", task))
		}
		b.WriteString("\n")
	}

	if len(phase.SuccessCriteria.Automated) > 0 || len(phase.SuccessCriteria.Manual) > 0 {
		b.WriteString("### Success Criteria\n\n")
		for _, check := range phase.SuccessCriteria.Automated {
			b.WriteString(fmt.Sprintf("- [ ] Automated: %s\n", check))
		}
		for _, check := range phase.SuccessCriteria.Manual {
			b.WriteString(fmt.Sprintf("- [ ] Manual: %s\n", check))
		}
		b.WriteString("\n")
	}

	if phase.ImplementationNotes != "" {
		b.WriteString(fmt.Sprintf("> %s\n\n", strings.TrimSpace(phase.ImplementationNotes)))
	}
}

func allPhases(p *proposal.Proposal) map[int]bool {
	selected := make(map[int]bool, len(p.Phases))
	for _, phase := range p.Phases {
		selected[phase.Number] = true
	}
	return selected
}
