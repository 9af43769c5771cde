// Package config loads and validates the application's YAML configuration.
//
// Secrets (JWT signing key, encryption key, LinkedIn client credentials)
// are deliberately NOT part of this file — they come from environment
// variables read in cmd/server. The YAML holds only tunables that are safe
// to commit and edit by hand.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port        int    `yaml:"port"`
		DBPath      string `yaml:"db_path"`
		Environment string `yaml:"environment"`
	} `yaml:"app"`

	HTTP struct {
		CORSOrigins        []string `yaml:"cors_origins"`
		RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
	} `yaml:"http"`

	Onboarding struct {
		// OracleURL points the access guard at an external key-status
		// endpoint. Empty means the guard reads the local user table.
		OracleURL            string `yaml:"oracle_url"`
		OracleTimeoutSeconds int    `yaml:"oracle_timeout_seconds"`
	} `yaml:"onboarding"`

	Resume struct {
		MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	} `yaml:"resume"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	var cfg Config
	cfg.App.Port = 8000
	cfg.App.DBPath = "data/jobassist.db"
	cfg.App.Environment = "development"
	cfg.HTTP.CORSOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	cfg.HTTP.RateLimitPerMinute = 60
	cfg.Onboarding.OracleTimeoutSeconds = 3
	cfg.Resume.MaxUploadBytes = 10 << 20 // 10MB
	return cfg
}

// Load reads a YAML config from path. A missing file is not an error —
// the defaults are returned so the server can start with zero setup.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
