// write.go persists rendered plan documents into the plans directory.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// fileTimestampLayout is the timestamp prefix used for plan file names.
const fileTimestampLayout = "20060102-150405"

var nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
var repeatedHyphens = regexp.MustCompile(`-{2,}`)

// Slugify converts a plan title into a filesystem-safe slug.
// Lowercase, non-alphanumerics replaced with hyphens, truncated to 50 chars.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = repeatedHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > 50 {
		s = s[:50]
		s = strings.TrimRight(s, "-")
	}

	if s == "" {
		s = "plan"
	}
	return s
}

// PlanFileName derives the document file name from the write time and title.
func PlanFileName(title string, now time.Time) string {
	return fmt.Sprintf("%s-%s.md", now.Format(fileTimestampLayout), Slugify(title))
}

// WritePlan writes the rendered document into dir, creating the directory
// if needed. Returns the path of the written file.
func WritePlan(dir, title, doc string, now time.Time) (string, error) {
	if dir == "" {
		dir = "plans"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating plans directory: %w", err)
	}

	path := filepath.Join(dir, PlanFileName(title, now))
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return "", fmt.Errorf("writing plan document: %w", err)
	}
	return path, nil
}
