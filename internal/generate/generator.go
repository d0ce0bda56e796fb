// Package generate implements the proposal generator: it spawns the model
// CLI with a planning prompt and parses the structured proposal out of the
// free-text response.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/drydock-dev/drydock/internal/config"
	"github.com/drydock-dev/drydock/internal/proposal"
)

// ErrNoGenerator is returned before any subprocess is spawned when no
// generation target is configured.
var ErrNoGenerator = errors.New("no generation target configured; set generator.command in .drydock/config.yaml")

// ErrNoProposal is returned when the model response contains no parseable
// proposal. Recoverable by re-invoking with a more detailed description.
var ErrNoProposal = errors.New("could not generate a proposal; retry with a more detailed task description")

// Request holds the inputs for one proposal generation.
type Request struct {
	TaskDescription string
	Context         string   // optional free-text context
	Files           []string // optional auxiliary files, read best-effort
	References      []string // optional reference URLs fed to the prompt
}

// modelOutput holds the parsed result from a model CLI invocation using
// --output-format json.
type modelOutput struct {
	Result     string  `json:"result"`
	CostUSD    float64 `json:"cost_usd"`
	DurationMS int64   `json:"duration_ms"`
	SessionID  string  `json:"session_id"`
	IsError    bool    `json:"is_error"`
}

// modelRawOutput is the full JSON envelope returned by the model CLI.
type modelRawOutput struct {
	Type       string  `json:"type"`
	Subtype    string  `json:"subtype"`
	Result     string  `json:"result"`
	CostUSD    float64 `json:"cost_usd"`
	DurationMS int64   `json:"duration_ms"`
	SessionID  string  `json:"session_id"`
	IsError    bool    `json:"is_error"`
	NumTurns   int     `json:"num_turns"`
}

// Generate produces a Proposal for the given request by spawning the
// configured model CLI. The call is cancellable through ctx: cancellation
// kills the subprocess and produces no proposal.
func Generate(ctx context.Context, cfg config.GeneratorConfig, req Request) (*proposal.Proposal, error) {
	if strings.TrimSpace(req.TaskDescription) == "" {
		return nil, fmt.Errorf("task description is empty")
	}
	if cfg.Command == "" {
		return nil, ErrNoGenerator
	}

	prompt := BuildProposalPrompt(req, readAuxFiles(req.Files))

	out, err := runModel(ctx, cfg, prompt)
	if err != nil {
		return nil, err
	}
	if out.IsError {
		return nil, fmt.Errorf("%w: model reported an error", ErrNoProposal)
	}

	p, err := ParseProposal(out.Result)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// readAuxFiles reads the given files best-effort. Unreadable files are
// silently skipped, never fatal.
func readAuxFiles(paths []string) map[string]string {
	contents := make(map[string]string, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		contents[path] = string(data)
	}
	return contents
}

// runModel invokes the model CLI as a subprocess with the planning prompt,
// waits for completion, and returns the parsed output envelope.
// It enforces cfg.Timeout as a hard timeout on top of the caller's ctx.
func runModel(ctx context.Context, cfg config.GeneratorConfig, prompt string) (*modelOutput, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"-p", prompt,
		"--output-format", "json",
	}
	if cfg.Model != "" {
		args = append(args, "--model", cfg.Model)
	}

	cmd := exec.CommandContext(ctx, cfg.Command, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.Canceled {
			return nil, fmt.Errorf("generation aborted: %w", ctx.Err())
		}
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("generator timed out after %s: %w", timeout, ctx.Err())
		}
		return nil, fmt.Errorf("generator exited with error: %w\nstderr: %s", err, stderr.String())
	}

	return parseModelOutput(stdout.Bytes())
}

// parseModelOutput parses the raw JSON bytes from the model CLI's
// --output-format json response.
func parseModelOutput(raw []byte) (*modelOutput, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty generator output")
	}

	var rawOut modelRawOutput
	if err := json.Unmarshal(raw, &rawOut); err != nil {
		return nil, fmt.Errorf("parsing generator output: %w", err)
	}

	if rawOut.Type != "result" {
		return nil, fmt.Errorf("unexpected generator output type: %q (expected \"result\")", rawOut.Type)
	}

	return &modelOutput{
		Result:     rawOut.Result,
		CostUSD:    rawOut.CostUSD,
		DurationMS: rawOut.DurationMS,
		SessionID:  rawOut.SessionID,
		IsError:    rawOut.IsError,
	}, nil
}
