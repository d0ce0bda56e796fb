// plan.go implements the "drydock plan" command which drives the full
// generate -> review -> persist pipeline.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/drydock-dev/drydock/internal/artifact"
	"github.com/drydock-dev/drydock/internal/cleanup"
	"github.com/drydock-dev/drydock/internal/config"
	"github.com/drydock-dev/drydock/internal/generate"
	"github.com/drydock-dev/drydock/internal/log"
	"github.com/drydock-dev/drydock/internal/proposal"
	"github.com/drydock-dev/drydock/internal/review"
	"github.com/drydock-dev/drydock/internal/search"
	"github.com/drydock-dev/drydock/internal/ui"
)

var planCmd = &cobra.Command{
	Use:   "plan [description]",
	Short: "Generate a proposal and review it in the browser",
	Long: `Generate a structured implementation proposal for the given task
description, open a local review session in your browser, and write the
approved plan to the plans directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

var (
	contextFlag   string
	filesFlag     []string
	researchFlag  bool
	noBrowserFlag bool
)

func init() {
	planCmd.Flags().StringVar(&contextFlag, "context", "", "Extra free-text context for the generator")
	planCmd.Flags().StringArrayVar(&filesFlag, "file", nil, "Auxiliary file to include in the prompt (repeatable)")
	planCmd.Flags().BoolVar(&researchFlag, "research", false, "Query the search API for candidate references")
	planCmd.Flags().BoolVar(&noBrowserFlag, "no-browser", false, "Print the review URL instead of launching a browser")
}

func runPlan(cmd *cobra.Command, args []string) error {
	description := args[0]
	if description == "" {
		return fmt.Errorf("provide a task description")
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := config.ReadConfig(workDir)
	if err != nil {
		// Not initialized; fall back to defaults.
		cfg = config.DefaultConfig()
	}

	logger, err := log.NewLogger(workDir)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	runID := uuid.NewString()
	ctx := cmd.Context()

	// Optional research pass; failure is never fatal to generation.
	var references []string
	if researchFlag {
		if client := search.NewClient(cfg.Search); client != nil {
			results, searchErr := client.Search(ctx, description)
			if searchErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: research search failed: %v\n", searchErr)
			} else {
				references = search.ReferenceLines(results)
			}
		} else {
			fmt.Fprintln(os.Stderr, "Warning: --research requested but search.endpoint is not configured")
		}
	}

	req := generate.Request{
		TaskDescription: description,
		Context:         contextFlag,
		Files:           filesFlag,
		References:      references,
	}

	if verbose {
		fmt.Fprintln(os.Stderr, ui.DimStyle.Render(fmt.Sprintf("generator: %s --model %s (timeout %ds)",
			cfg.Generator.Command, cfg.Generator.Model, cfg.Generator.Timeout)))
		fmt.Fprintln(os.Stderr, generate.BuildProposalPrompt(req, nil))
	}

	appendLog(logger, log.LogEvent{Event: log.EventGenerationStarted, RunID: runID, Title: description})

	genStart := time.Now()
	p, err := generateProposal(ctx, cfg.Generator, req)
	if err != nil {
		appendLog(logger, log.LogEvent{Event: log.EventGenerationFailed, RunID: runID, Error: err.Error()})
		if errors.Is(err, generate.ErrNoGenerator) || errors.Is(err, generate.ErrNoProposal) {
			return err
		}
		return fmt.Errorf("generating proposal: %w", err)
	}

	appendLog(logger, log.LogEvent{
		Event:      log.EventProposalReady,
		RunID:      runID,
		Title:      p.Title,
		Phases:     len(p.Phases),
		DurationMs: time.Since(genStart).Milliseconds(),
	})

	fmt.Println(ui.BoxStyle.Render(fmt.Sprintf("%s\n%s",
		ui.TitleStyle.Render(p.Title),
		ui.DimStyle.Render(fmt.Sprintf("%d phases - review opens in your browser", len(p.Phases))))))

	outcome, err := runReview(ctx, cfg, p, workDir, runID, logger)
	if err != nil && outcome != nil && outcome.Reason == review.ReasonLaunchFailed {
		return handleLaunchFailure(cfg, p, outcome, err, logger, runID)
	}
	if err != nil {
		return err
	}

	reportOutcome(outcome)

	if outcome.PlanPath != "" && cfg.Plans.MaxAgeDays > 0 {
		if pruned, pruneErr := cleanup.PruneByAge(cfg.Plans.Dir, cfg.Plans.MaxAgeDays, false); pruneErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: pruning old plans failed: %v\n", pruneErr)
		} else if len(pruned) > 0 {
			fmt.Printf("Pruned %d old plan(s)\n", len(pruned))
		}
	}

	return nil
}

// generateProposal wraps the generator call in a spinner when attached to a
// terminal.
func generateProposal(ctx context.Context, cfg config.GeneratorConfig, req generate.Request) (*proposal.Proposal, error) {
	if !ui.IsTTY() {
		return generate.Generate(ctx, cfg, req)
	}

	var p *proposal.Proposal
	err := ui.RunWithSpinner(ctx, os.Stdout, "Generating proposal...", func(ctx context.Context) error {
		var genErr error
		p, genErr = generate.Generate(ctx, cfg, req)
		return genErr
	})
	return p, err
}

func runReview(ctx context.Context, cfg *config.Config, p *proposal.Proposal, workDir, runID string, logger *log.Logger) (*review.Outcome, error) {
	opts := review.Options{
		Review:   cfg.Review,
		PlansDir: cfg.Plans.Dir,
		WorkDir:  workDir,
		RunID:    runID,
		OpenURL: func(url string) error {
			fmt.Printf("Review session: %s\n", ui.URLStyle.Render(url))
			if clipErr := clipboard.WriteAll(url); clipErr == nil {
				fmt.Println(ui.DimStyle.Render("URL copied to clipboard"))
			}
			appendLog(logger, log.LogEvent{Event: log.EventSessionStarted, RunID: runID, URL: url})
			if noBrowserFlag || !cfg.Review.OpenBrowser {
				return nil
			}
			return review.OpenBrowser(url)
		},
	}

	outcome, err := review.RunReviewSession(ctx, p, opts)
	if outcome != nil {
		event := log.LogEvent{Event: log.EventSessionResolved, RunID: runID, Reason: string(outcome.Reason)}
		if outcome.Decision != nil {
			event.Verdict = outcome.Decision.Decision
		}
		if outcome.PlanPath != "" {
			event.Path = outcome.PlanPath
			appendLog(logger, log.LogEvent{Event: log.EventPlanWritten, RunID: runID, Path: outcome.PlanPath})
		}
		appendLog(logger, event)
	}
	return outcome, err
}

// handleLaunchFailure offers the single-keypress terminal fallback when the
// browser could not be opened. The proposal is not discarded.
func handleLaunchFailure(cfg *config.Config, p *proposal.Proposal, outcome *review.Outcome, launchErr error, logger *log.Logger, runID string) error {
	appendLog(logger, log.LogEvent{Event: log.EventLaunchFailed, RunID: runID, Error: launchErr.Error()})
	fmt.Fprintln(os.Stderr, ui.WarningStyle.Render(fmt.Sprintf("Could not open a browser: %v", launchErr)))
	fmt.Fprintf(os.Stderr, "Re-run with --no-browser and open the URL manually.\n")

	if !ui.IsTTY() {
		return launchErr
	}

	ok, confirmErr := ui.ConfirmKey("Approve the full proposal from the terminal instead?")
	if confirmErr != nil || !ok {
		fmt.Println(ui.DimStyle.Render("Proposal discarded without approval."))
		return nil
	}

	decision := &proposal.Decision{Decision: proposal.VerdictApprove}
	now := time.Now()
	doc := artifact.RenderPlanDocument(p, decision, now)
	path, err := artifact.WritePlan(cfg.Plans.Dir, p.Title, doc, now)
	if err != nil {
		return fmt.Errorf("writing plan document: %w", err)
	}

	appendLog(logger, log.LogEvent{Event: log.EventPlanWritten, RunID: runID, Path: path, Verdict: decision.Decision})
	fmt.Println(ui.SuccessStyle.Render(fmt.Sprintf("Plan written to %s", path)))
	return nil
}

func reportOutcome(outcome *review.Outcome) {
	switch outcome.Reason {
	case review.ReasonSubmitted:
		if outcome.Approved() {
			fmt.Println(ui.SuccessStyle.Render(fmt.Sprintf("Plan approved (%s) and written to %s",
				outcome.Decision.Decision, outcome.PlanPath)))
		} else {
			msg := "Plan rejected."
			if outcome.Decision.Notes != "" {
				msg = fmt.Sprintf("Plan rejected: %s", outcome.Decision.Notes)
			}
			fmt.Println(ui.ErrorStyle.Render(msg))
		}
	case review.ReasonCancelled:
		fmt.Println(ui.DimStyle.Render("Review cancelled."))
	case review.ReasonTimeout:
		fmt.Println(ui.WarningStyle.Render("Review session timed out with no activity."))
	case review.ReasonAborted:
		fmt.Println(ui.DimStyle.Render("Review aborted."))
	}
}

func appendLog(logger *log.Logger, event log.LogEvent) {
	if err := logger.Append(event); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to log %s: %v\n", event.Event, err)
	}
}
