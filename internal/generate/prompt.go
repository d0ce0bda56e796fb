// prompt.go builds the planning prompt for proposal generation.
package generate

import (
	"fmt"
	"strings"
)

// maxAuxFileBytes caps how much of each auxiliary file is inlined into the
// prompt to keep the request within reasonable bounds.
const maxAuxFileBytes = 16 * 1024

// BuildProposalPrompt constructs the full prompt for the model to generate
// an implementation proposal. It incorporates the task description, optional
// free-text context, auxiliary file contents, and candidate references.
func BuildProposalPrompt(req Request, auxFiles map[string]string) string {
	var b strings.Builder

	b.WriteString("# Task: Create an Implementation Proposal\n\n")

	b.WriteString("## Task Description\n\n")
	b.WriteString(strings.TrimSpace(req.TaskDescription))
	b.WriteString("\n\n")

	if strings.TrimSpace(req.Context) != "" {
		b.WriteString("## Additional Context\n\n")
		b.WriteString(strings.TrimSpace(req.Context))
		b.WriteString("\n\n")
	}

	if len(auxFiles) > 0 {
		b.WriteString("## Relevant Files\n\n")
		for _, path := range req.Files {
			content, ok := auxFiles[path]
			if !ok {
				continue
			}
			if len(content) > maxAuxFileBytes {
				content = content[:maxAuxFileBytes] + "\n... (truncated)"
			}
			b.WriteString(fmt.Sprintf("### %s\n\n```\n%s\n```\n\n", path, content))
		}
	}

	if len(req.References) > 0 {
		b.WriteString("## Candidate References\n\n")
		for _, ref := range req.References {
			b.WriteString(fmt.Sprintf("- %s\n", ref))
		}
		b.WriteString("\n")
	}

	b.WriteString(`## Output Format

You MUST output the proposal as a single JSON object with this exact shape:

{
  "title": "Short plan title",
  "overview": "One or two paragraphs describing the approach",
  "currentState": "What exists today (optional)",
  "desiredEndState": "What should exist when done (optional)",
  "outOfScope": ["Things deliberately not covered"],
  "phases": [
    {
      "number": 1,
      "name": "Phase name",
      "description": "What this phase accomplishes",
      "tasks": ["Concrete task", "Another task"],
      "successCriteria": {
        "automated": ["Command or check that verifies the phase"],
        "manual": ["Human verification step"]
      },
      "implementationNotes": "Optional hints for the implementer"
    }
  ],
  "testingStrategy": "How the work is verified overall (optional)",
  "references": ["Relevant URLs or docs (optional)"]
}

Rules for the output:
- Number phases sequentially starting at 1; numbers must be unique
- Every phase MUST have number, name, description, tasks, and successCriteria
- Keep each phase independently reviewable: one responsibility per phase
- Output ONLY the JSON object (a json code fence is acceptable)
- Do NOT write the proposal to a file; return it as your text response
`)

	return b.String()
}
