package review

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/drydock-dev/drydock/internal/proposal"
)

//go:embed static/index.html
var indexHTML string

//go:embed static/styles.css
var stylesCSS []byte

//go:embed static/script.js
var scriptJS []byte

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// pagePayload is the session data embedded into the review page so the
// client renders without an extra round trip.
type pagePayload struct {
	Proposal          *proposal.Proposal `json:"proposal"`
	Token             string             `json:"token"`
	WorkDir           string             `json:"workDir"`
	RunID             string             `json:"runId"`
	IdleTimeoutSec    int                `json:"idleTimeoutSec"`
	HeartbeatInterval int                `json:"heartbeatIntervalSec"`
}

// renderIndex renders the review page with the proposal and session data
// embedded at serve time.
func renderIndex(p *proposal.Proposal, token string, opts ServerOptions) ([]byte, error) {
	payload := pagePayload{
		Proposal:          p,
		Token:             token,
		WorkDir:           opts.WorkDir,
		RunID:             opts.RunID,
		IdleTimeoutSec:    int(opts.IdleTimeout / time.Second),
		HeartbeatInterval: int(opts.HeartbeatInterval / time.Second),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshalling page payload: %w", err)
	}

	var buf bytes.Buffer
	data := struct {
		Title   string
		Payload template.JS
	}{
		Title:   p.Title,
		Payload: template.JS(raw),
	}
	if err := indexTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing index template: %w", err)
	}
	return buf.Bytes(), nil
}
