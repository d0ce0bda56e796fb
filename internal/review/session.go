// session.go is the session coordinator: it starts the server, opens the
// browser, and guarantees exactly-once resolution visible to the caller.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/drydock-dev/drydock/internal/artifact"
	"github.com/drydock-dev/drydock/internal/config"
	"github.com/drydock-dev/drydock/internal/proposal"
)

// Reason classifies how a review session ended. Timeout and abort are
// distinguishable from an explicit cancel in logs even though none of them
// produce an artifact.
type Reason string

const (
	ReasonSubmitted    Reason = "submitted"
	ReasonCancelled    Reason = "cancelled"
	ReasonTimeout      Reason = "timeout"
	ReasonAborted      Reason = "aborted"
	ReasonLaunchFailed Reason = "launch_failed"
)

// Outcome is the structured result of a review session. Decision is non-nil
// only when the reviewer submitted; PlanPath is set only when an approved
// decision produced a plan document.
type Outcome struct {
	Reason   Reason
	Decision *proposal.Decision
	URL      string
	PlanPath string
}

// Approved reports whether the session produced an approve or modify
// decision.
func (o *Outcome) Approved() bool {
	return o.Decision != nil && o.Decision.Approved()
}

// Options configures a review session run.
type Options struct {
	Review   config.ReviewConfig
	PlansDir string
	WorkDir  string
	RunID    string

	// OpenURL overrides the browser launcher. Nil means OpenBrowser.
	OpenURL func(url string) error
	// Now overrides the clock used for artifact naming and footers.
	Now func() time.Time
}

// RunReviewSession serves the proposal for review and blocks until exactly
// one of {submit, cancel, idle timeout, ctx cancellation} fires. The
// server's socket and timers are released before it returns, regardless of
// which source won.
//
// A browser launch failure resolves the session immediately; the returned
// Outcome still carries the session URL so the caller can report it, and
// the error distinguishes the launch failure from a user rejection.
//
// On an approved decision the rendered plan document is written beneath
// opts.PlansDir and its path recorded in the Outcome.
func RunReviewSession(ctx context.Context, p *proposal.Proposal, opts Options) (*Outcome, error) {
	srv, err := NewServer(p, ServerOptions{
		IdleTimeout:       time.Duration(opts.Review.IdleTimeout) * time.Second,
		GraceDelay:        time.Duration(opts.Review.GraceDelayMs) * time.Millisecond,
		HeartbeatInterval: time.Duration(opts.Review.HeartbeatInterval) * time.Second,
		WorkDir:           opts.WorkDir,
		RunID:             opts.RunID,
	})
	if err != nil {
		return nil, err
	}
	defer srv.Close()

	srv.Start()
	url := srv.URL()
	outcome := &Outcome{URL: url}

	openURL := opts.OpenURL
	if openURL == nil {
		openURL = OpenBrowser
	}
	if launchErr := openURL(url); launchErr != nil {
		srv.Abort()
		<-srv.Resolved()
		outcome.Reason = ReasonLaunchFailed
		return outcome, fmt.Errorf("review session not started: %w", launchErr)
	}

	var res Resolution
	select {
	case res = <-srv.Resolved():
	case <-ctx.Done():
		// External abort behaves exactly like a user cancel, through the
		// same one-shot guard. If the server resolved in the meantime the
		// abort is a no-op and the original resolution is read back here.
		srv.Abort()
		res = <-srv.Resolved()
	}

	switch res.Kind {
	case ResolvedSubmit:
		outcome.Reason = ReasonSubmitted
		outcome.Decision = res.Decision
	case ResolvedCancel:
		outcome.Reason = ReasonCancelled
	case ResolvedTimeout:
		outcome.Reason = ReasonTimeout
	case ResolvedAbort:
		outcome.Reason = ReasonAborted
	case ResolvedError:
		outcome.Reason = ReasonCancelled
		return outcome, fmt.Errorf("review server failed: %w", res.Err)
	}

	if outcome.Approved() {
		now := opts.Now
		if now == nil {
			now = time.Now
		}
		doc := artifact.RenderPlanDocument(p, outcome.Decision, now())
		path, writeErr := artifact.WritePlan(opts.PlansDir, p.Title, doc, now())
		if writeErr != nil {
			return outcome, fmt.Errorf("writing plan document: %w", writeErr)
		}
		outcome.PlanPath = path
	}

	return outcome, nil
}
