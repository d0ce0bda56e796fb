// Package cli defines Cobra command definitions for the drydock CLI.
// This file contains the root command, version flag, and help output.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	version = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "drydock",
	Short: "AI-generated implementation plans with human review",
	Long: `Drydock turns a task description into a structured implementation
proposal, opens a local browser session for you to review it, and writes
the approved plan to the plans directory.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. Called from main.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Print generator invocation details and the assembled prompt")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(plansCmd)
}
