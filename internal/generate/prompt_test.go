package generate

import (
	"strings"
	"testing"
)

func TestBuildProposalPrompt_Sections(t *testing.T) {
	req := Request{
		TaskDescription: "Add rate limiting to the API",
		Context:         "The API currently has no throttling.",
		Files:           []string{"api/server.go"},
		References:      []string{"https://pkg.go.dev/golang.org/x/time/rate"},
	}
	aux := map[string]string{"api/server.go": "package api\n"}

	prompt := BuildProposalPrompt(req, aux)

	for _, want := range []string{
		"Add rate limiting to the API",
		"## Additional Context",
		"no throttling",
		"### api/server.go",
		"## Candidate References",
		"golang.org/x/time/rate",
		"## Output Format",
		`"successCriteria"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildProposalPrompt_MinimalRequest(t *testing.T) {
	prompt := BuildProposalPrompt(Request{TaskDescription: "Do the thing"}, nil)

	if strings.Contains(prompt, "## Additional Context") {
		t.Error("empty context should not produce a context section")
	}
	if strings.Contains(prompt, "## Relevant Files") {
		t.Error("no aux files should not produce a files section")
	}
}

func TestBuildProposalPrompt_TruncatesLargeFiles(t *testing.T) {
	big := strings.Repeat("x", maxAuxFileBytes+100)
	req := Request{TaskDescription: "t", Files: []string{"big.txt"}}

	prompt := BuildProposalPrompt(req, map[string]string{"big.txt": big})

	if !strings.Contains(prompt, "(truncated)") {
		t.Error("oversized file content should be truncated")
	}
}
