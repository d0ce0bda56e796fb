// plans.go implements the "drydock plans" command for listing and pruning
// plan documents.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/drydock-dev/drydock/internal/cleanup"
	"github.com/drydock-dev/drydock/internal/config"
	"github.com/drydock-dev/drydock/internal/ui"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List and prune plan documents",
	RunE:  runPlans,
}

var (
	pruneDaysFlag int
	keepFlag      int
	dryRunFlag    bool
)

func init() {
	plansCmd.Flags().IntVar(&pruneDaysFlag, "prune", 0, "Remove plans older than this many days")
	plansCmd.Flags().IntVar(&keepFlag, "keep", 0, "Keep only the most recent N plans")
	plansCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Show what would be removed without deleting")
}

func runPlans(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := config.ReadConfig(dir)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	if pruneDaysFlag > 0 && keepFlag > 0 {
		return fmt.Errorf("--prune and --keep are mutually exclusive")
	}

	if pruneDaysFlag > 0 {
		return prunePlans(cfg.Plans.Dir, func() ([]string, error) {
			return cleanup.PruneByAge(cfg.Plans.Dir, pruneDaysFlag, dryRunFlag)
		})
	}
	if keepFlag > 0 {
		return prunePlans(cfg.Plans.Dir, func() ([]string, error) {
			return cleanup.PruneKeepRecent(cfg.Plans.Dir, keepFlag, dryRunFlag)
		})
	}

	return listPlans(cfg.Plans.Dir)
}

func listPlans(plansDir string) error {
	entries, err := os.ReadDir(plansDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println(ui.DimStyle.Render("No plans directory yet. Run 'drydock plan' first."))
			return nil
		}
		return fmt.Errorf("reading plans directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		names = append(names, entry.Name())
	}

	if len(names) == 0 {
		fmt.Println(ui.DimStyle.Render("No plans found."))
		return nil
	}

	// Newest first; timestamp prefixes sort lexicographically.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	fmt.Println(ui.TitleStyle.Render(fmt.Sprintf("%d plan(s) in %s/", len(names), plansDir)))
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func prunePlans(plansDir string, prune func() ([]string, error)) error {
	pruned, err := prune()
	if err != nil {
		return err
	}
	if len(pruned) == 0 {
		fmt.Println(ui.DimStyle.Render("Nothing to prune."))
		return nil
	}

	verb := "Removed"
	if dryRunFlag {
		verb = "Would remove"
	}
	fmt.Printf("%s %d plan(s) from %s/:\n", verb, len(pruned), plansDir)
	for _, name := range pruned {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
