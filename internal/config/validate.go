package config

import (
	"fmt"
	"strings"
)

// Validate returns an error listing every problem found, or nil.
// All problems are reported at once so a user can fix the file in one pass.
func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if cfg.App.DBPath == "" {
		errs = append(errs, "app.db_path is required")
	}
	if cfg.HTTP.RateLimitPerMinute <= 0 {
		errs = append(errs, "http.rate_limit_per_minute must be > 0")
	}
	for i, o := range cfg.HTTP.CORSOrigins {
		if strings.TrimSpace(o) == "" {
			errs = append(errs, fmt.Sprintf("http.cors_origins[%d] cannot be empty", i))
		}
	}
	if cfg.Onboarding.OracleTimeoutSeconds <= 0 {
		errs = append(errs, "onboarding.oracle_timeout_seconds must be > 0")
	}
	if cfg.Resume.MaxUploadBytes <= 0 {
		errs = append(errs, "resume.max_upload_bytes must be > 0")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
