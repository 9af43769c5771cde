package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Port != 8000 {
		t.Errorf("App.Port = %d, want 8000", cfg.App.Port)
	}
	if cfg.Onboarding.OracleTimeoutSeconds != 3 {
		t.Errorf("OracleTimeoutSeconds = %d, want 3", cfg.Onboarding.OracleTimeoutSeconds)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := "app:\n  port: 9001\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Port != 9001 {
		t.Errorf("App.Port = %d, want 9001", cfg.App.Port)
	}
	// Untouched sections keep their defaults.
	if cfg.HTTP.RateLimitPerMinute != 60 {
		t.Errorf("RateLimitPerMinute = %d, want 60", cfg.HTTP.RateLimitPerMinute)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("app: [not a mapping"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.App.Port = 0 }, true},
		{"huge port", func(c *Config) { c.App.Port = 70000 }, true},
		{"empty db path", func(c *Config) { c.App.DBPath = "" }, true},
		{"zero rate limit", func(c *Config) { c.HTTP.RateLimitPerMinute = 0 }, true},
		{"blank cors origin", func(c *Config) { c.HTTP.CORSOrigins = []string{" "} }, true},
		{"zero oracle timeout", func(c *Config) { c.Onboarding.OracleTimeoutSeconds = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAtomic_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yml")

	cfg := Default()
	cfg.App.Port = 9999
	if err := SaveAtomic(path, cfg); err != nil {
		t.Fatalf("SaveAtomic() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.App.Port != 9999 {
		t.Errorf("App.Port = %d, want 9999", loaded.App.Port)
	}
}
