package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Add rate limiting", "add-rate-limiting"},
		{"Fix: the (weird) bug!!", "fix-the-weird-bug"},
		{"---", "plan"},
		{"", "plan"},
		{"Ünïcode gets stripped", "n-code-gets-stripped"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugifyTruncates(t *testing.T) {
	long := strings.Repeat("word-", 20)
	got := Slugify(long)
	if len(got) > 50 {
		t.Errorf("slug length = %d, want <= 50", len(got))
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("slug %q should not end with a hyphen", got)
	}
}

func TestPlanFileName(t *testing.T) {
	now := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	got := PlanFileName("Add rate limiting", now)
	want := "20260901-143000-add-rate-limiting.md"
	if got != want {
		t.Errorf("PlanFileName = %q, want %q", got, want)
	}
}

func TestWritePlan(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plans")
	now := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

	path, err := WritePlan(dir, "Add rate limiting", "# Add rate limiting\n", now)
	if err != nil {
		t.Fatalf("WritePlan failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written plan: %v", err)
	}
	if string(data) != "# Add rate limiting\n" {
		t.Errorf("unexpected document content: %q", data)
	}
	if filepath.Base(path) != "20260901-143000-add-rate-limiting.md" {
		t.Errorf("unexpected file name %q", filepath.Base(path))
	}
}
