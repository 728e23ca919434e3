// Package models defines data structures for configuration, sections, and
// analytics events.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds site-level settings for the reader client.
type Config struct {
	// BaseURL is the root of the reading platform, e.g. https://reader.example.com
	BaseURL string `yaml:"base_url"`

	// ProgressEndpoint receives reading-progress payloads.
	ProgressEndpoint string `yaml:"progress_endpoint"`

	// Analytics endpoints, probed in order. Either may be empty.
	PlausibleEndpoint string `yaml:"plausible_endpoint"`
	GtagEndpoint      string `yaml:"gtag_endpoint"`

	// CardSelector matches book-card elements in grid pages.
	// Defaults to extractor.DefaultCardSelector when empty.
	CardSelector string `yaml:"card_selector"`

	// DefaultLanguage is used when no language can be detected.
	DefaultLanguage string `yaml:"default_language"`

	// EventDBPath overrides the location of the local event buffer database.
	EventDBPath string `yaml:"event_db_path"`
}

// LoadConfig reads a YAML config file from the given path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}

	return &cfg, nil
}
