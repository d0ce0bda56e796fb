// Package config handles reading and writing .drydock/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for .drydock/config.yaml.
type Config struct {
	Version   int             `yaml:"version"`
	Generator GeneratorConfig `yaml:"generator"`
	Review    ReviewConfig    `yaml:"review"`
	Plans     PlansConfig     `yaml:"plans"`
	Search    SearchConfig    `yaml:"search"`
}

// GeneratorConfig controls how the proposal generator invokes the model CLI.
type GeneratorConfig struct {
	Command string `yaml:"command"` // CLI binary, e.g. "claude"; empty disables generation
	Model   string `yaml:"model"`
	Timeout int    `yaml:"timeout"` // seconds
}

// ReviewConfig controls the browser review session.
type ReviewConfig struct {
	IdleTimeout       int  `yaml:"idle_timeout"`       // seconds
	HeartbeatInterval int  `yaml:"heartbeat_interval"` // seconds, hint embedded into the page
	GraceDelayMs      int  `yaml:"grace_delay_ms"`     // delay between HTTP ack and resolution
	OpenBrowser       bool `yaml:"open_browser"`
}

// PlansConfig holds settings for the persisted plan documents.
type PlansConfig struct {
	Dir        string `yaml:"dir"`
	MaxAgeDays int    `yaml:"max_age_days"` // 0 disables pruning
}

// SearchConfig configures the optional research search API.
type SearchConfig struct {
	Endpoint   string `yaml:"endpoint"`
	MaxResults int    `yaml:"max_results"`
}

const configDir = ".drydock"
const configFile = "config.yaml"

// ReadConfig reads .drydock/config.yaml from the given project directory.
// dir is the project root (not .drydock/ itself).
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configDir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// WriteConfig writes cfg to .drydock/config.yaml in the given project
// directory. Creates the .drydock/ directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Generator: GeneratorConfig{
			Command: "claude",
			Model:   "opus",
			Timeout: 600,
		},
		Review: ReviewConfig{
			IdleTimeout:       600,
			HeartbeatInterval: 10,
			GraceDelayMs:      200,
			OpenBrowser:       true,
		},
		Plans: PlansConfig{
			Dir:        "plans",
			MaxAgeDays: 0,
		},
		Search: SearchConfig{
			MaxResults: 5,
		},
	}
}
