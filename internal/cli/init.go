// init.go implements the "drydock init" command.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drydock-dev/drydock/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize drydock in the current project",
	Long: `Initialize the .drydock/ directory with a default configuration and
create the plans directory.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	// Check for an existing .drydock/ directory.
	drydockDir := filepath.Join(dir, ".drydock")
	if info, statErr := os.Stat(drydockDir); statErr == nil && info.IsDir() {
		fmt.Println("Warning: .drydock/ directory already exists.")
		fmt.Print("Reinitialize? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if err := config.WriteConfig(dir, cfg); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(dir, cfg.Plans.Dir), 0755); err != nil {
		return fmt.Errorf("creating plans directory: %w", err)
	}

	fmt.Println("Initialized .drydock/config.yaml")
	fmt.Printf("Plans will be written to %s/\n", cfg.Plans.Dir)
	return nil
}
