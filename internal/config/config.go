package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"moodle-eval-helper/internal/model"
	"moodle-eval-helper/pkg/logging"
)

// Config represents a job file
type Config struct {
	Job     model.JobSpec  `yaml:"job"`
	Logging logging.Config `yaml:"logging"`
	History HistoryConfig  `yaml:"history"`
}

// HistoryConfig controls the optional run history database
type HistoryConfig struct {
	Path string `yaml:"path"` // empty disables history
}

// Load loads configuration from a YAML file. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Job.Input.Encoding == "" {
		cfg.Job.Input.Encoding = "utf-8"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}
