// Package cleanup implements pruning of old plan documents.
package cleanup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// planTimestampLayout is the timestamp prefix used for plan file names.
const planTimestampLayout = "20060102-150405"

// planTimestamp extracts the timestamp prefix from a plan file name like
// "20260901-143000-add-rate-limiting.md". Returns the zero time if the name
// does not carry one.
func planTimestamp(name string) time.Time {
	if !strings.HasSuffix(name, ".md") {
		return time.Time{}
	}
	if len(name) < len(planTimestampLayout) {
		return time.Time{}
	}
	t, err := time.Parse(planTimestampLayout, name[:len(planTimestampLayout)])
	if err != nil {
		return time.Time{}
	}
	return t
}

// PruneByAge removes plan documents older than maxAgeDays.
// If dryRun is true, no files are deleted; the function only returns the
// names that would be removed. Returns the list of pruned file names.
func PruneByAge(plansDir string, maxAgeDays int, dryRun bool) ([]string, error) {
	entries, err := os.ReadDir(plansDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading plans directory: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)
	var pruned []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		t := planTimestamp(entry.Name())
		if t.IsZero() {
			// Skip files that don't match the plan naming scheme.
			continue
		}

		if t.Before(cutoff) {
			if !dryRun {
				path := filepath.Join(plansDir, entry.Name())
				if rmErr := os.Remove(path); rmErr != nil {
					return pruned, fmt.Errorf("removing %s: %w", entry.Name(), rmErr)
				}
			}
			pruned = append(pruned, entry.Name())
		}
	}

	return pruned, nil
}

// PruneKeepRecent removes all plan documents except the most recent keep
// files. If dryRun is true, no files are deleted. Returns the list of
// pruned file names.
func PruneKeepRecent(plansDir string, keep int, dryRun bool) ([]string, error) {
	entries, err := os.ReadDir(plansDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading plans directory: %w", err)
	}

	// Filter to timestamp-named plan files.
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !planTimestamp(entry.Name()).IsZero() {
			names = append(names, entry.Name())
		}
	}

	// Sort chronologically (timestamp prefixes sort lexicographically).
	sort.Strings(names)

	if len(names) <= keep {
		return nil, nil
	}

	toRemove := names[:len(names)-keep]
	var pruned []string

	for _, name := range toRemove {
		if !dryRun {
			path := filepath.Join(plansDir, name)
			if rmErr := os.Remove(path); rmErr != nil {
				return pruned, fmt.Errorf("removing %s: %w", name, rmErr)
			}
		}
		pruned = append(pruned, name)
	}

	return pruned, nil
}
