// Package main is the entry point for the jobassist server. It reads
// configuration, creates the logger, and hands off to internal/server —
// all actual behaviour lives in the imported packages.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sakif/jobassist/internal/config"
	"github.com/sakif/jobassist/internal/secret"
	"github.com/sakif/jobassist/internal/server"
)

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))

	// File config first, env overrides on top. A missing config file is
	// fine; defaults cover everything but secrets.
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Error("loading config", slog.String("path", cfgPath), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
		cfg.App.Port = port
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.App.DBPath = dbPath
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		cfg.App.Environment = env
	}

	if err := config.Validate(cfg); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Secrets come from the environment only.
	// Generate: JWT_SECRET=$(openssl rand -hex 32)
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET not set")
		os.Exit(1)
	}

	encryptionKey := os.Getenv("ENCRYPTION_KEY")
	if encryptionKey == "" {
		// Development convenience: an ephemeral key means stored API keys
		// don't survive a restart, which is unacceptable in production.
		if cfg.App.Environment != "development" {
			logger.Error("ENCRYPTION_KEY not set")
			os.Exit(1)
		}
		encryptionKey, err = secret.GenerateKey()
		if err != nil {
			logger.Error("generating ephemeral encryption key", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Warn("ENCRYPTION_KEY not set, using an ephemeral key; stored api keys will not survive a restart")
	}

	linkedinCallback := os.Getenv("LINKEDIN_REDIRECT_URI")
	if linkedinCallback == "" {
		linkedinCallback = fmt.Sprintf("http://localhost:%d/api/linkedin/callback", cfg.App.Port)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.App.DBPath), 0o755); err != nil {
		logger.Error("creating database directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.New(cfg, server.Secrets{
		JWTSecret:            jwtSecret,
		EncryptionKey:        encryptionKey,
		LinkedInClientID:     os.Getenv("LINKEDIN_CLIENT_ID"),
		LinkedInClientSecret: os.Getenv("LINKEDIN_CLIENT_SECRET"),
		LinkedInCallbackURL:  linkedinCallback,
	}, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
