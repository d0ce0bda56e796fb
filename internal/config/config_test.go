package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigYAMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Review.IdleTimeout = 120
	cfg.Search.Endpoint = "https://search.example.com/api"

	if err := WriteConfig(tmpDir, cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	loaded, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if loaded.Review.IdleTimeout != 120 {
		t.Errorf("Review.IdleTimeout: got %d, want 120", loaded.Review.IdleTimeout)
	}
	if loaded.Search.Endpoint != "https://search.example.com/api" {
		t.Errorf("Search.Endpoint: got %q, want %q", loaded.Search.Endpoint, "https://search.example.com/api")
	}
	if loaded.Generator.Command != "claude" {
		t.Errorf("Generator.Command: got %q, want %q", loaded.Generator.Command, "claude")
	}
}

func TestDefaultConfigReviewTimings(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Review.IdleTimeout != 600 {
		t.Errorf("default Review.IdleTimeout: got %d, want 600", cfg.Review.IdleTimeout)
	}
	if cfg.Review.HeartbeatInterval >= cfg.Review.IdleTimeout/10 {
		t.Errorf("heartbeat interval %d too close to idle timeout %d",
			cfg.Review.HeartbeatInterval, cfg.Review.IdleTimeout)
	}
	if !cfg.Review.OpenBrowser {
		t.Error("default Review.OpenBrowser should be true")
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir())
	if err == nil {
		t.Error("expected error for missing config file, got nil")
	}
}

func TestBackwardCompatibility(t *testing.T) {
	// Simulate an old config file without the search section.
	tmpDir := t.TempDir()
	oldConfig := `version: 1
generator:
  command: claude
  model: opus
  timeout: 600
review:
  idle_timeout: 600
  heartbeat_interval: 10
  open_browser: true
plans:
  dir: plans
`
	configPath := filepath.Join(tmpDir, ".drydock")
	if err := os.MkdirAll(configPath, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configPath, "config.yaml"), []byte(oldConfig), 0644); err != nil {
		t.Fatalf("failed to write old config: %v", err)
	}

	cfg, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed on old config: %v", err)
	}
	if cfg.Search.Endpoint != "" {
		t.Errorf("Search.Endpoint: got %q, want empty", cfg.Search.Endpoint)
	}
}
