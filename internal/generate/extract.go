// extract.go locates and parses the proposal JSON inside free-form model text.
package generate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/drydock-dev/drydock/internal/proposal"
)

// ParseProposal extracts the proposal JSON from a free-text model response
// and unmarshals it. The response is expected to contain a single JSON
// object, optionally fenced; anything around it is prose and is ignored.
// Returns ErrNoProposal when no valid payload can be located.
func ParseProposal(text string) (*proposal.Proposal, error) {
	payload, ok := extractJSON(text)
	if !ok {
		return nil, ErrNoProposal
	}

	var p proposal.Proposal
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoProposal, err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoProposal, err)
	}

	return &p, nil
}

// extractJSON finds the structured payload within surrounding prose.
// Strategy one looks for an explicitly fenced block; strategy two falls
// back to the outermost object-like span.
func extractJSON(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	// Try to extract JSON from markdown code fences first.
	if idx := strings.Index(s, "```json"); idx != -1 {
		body := s[idx+7:]
		if endIdx := strings.Index(body, "```"); endIdx != -1 {
			body = body[:endIdx]
		}
		body = strings.TrimSpace(body)
		if body != "" {
			return body, true
		}
	}
	if idx := strings.Index(s, "```"); idx != -1 {
		body := s[idx+3:]
		// Skip optional language identifier on same line.
		if nlIdx := strings.Index(body, "\n"); nlIdx != -1 && nlIdx < 20 {
			body = body[nlIdx+1:]
		}
		if endIdx := strings.Index(body, "```"); endIdx != -1 {
			body = body[:endIdx]
		}
		body = strings.TrimSpace(body)
		if strings.HasPrefix(body, "{") {
			return body, true
		}
	}

	// No usable fence. Look for the outermost object span. Match on '{"'
	// first to avoid braces in prose like "{see below}".
	start := strings.Index(s, `{"`)
	if start == -1 {
		start = strings.Index(s, "{")
	}
	end := strings.LastIndex(s, "}")
	if start != -1 && end != -1 && end > start {
		return s[start : end+1], true
	}

	return "", false
}
