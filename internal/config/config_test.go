// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RETROSPIN_AUTH_DEV_USER_ID", "dev")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8484 {
		t.Errorf("server port = %d, want 8484", cfg.Server.Port)
	}
	if cfg.Import.BatchSize != 500 {
		t.Errorf("batch size = %d, want 500", cfg.Import.BatchSize)
	}
	if cfg.Catalog.Concurrency != 10 {
		t.Errorf("catalog concurrency = %d, want 10", cfg.Catalog.Concurrency)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RETROSPIN_AUTH_DEV_USER_ID", "dev")
	t.Setenv("RETROSPIN_SERVER_PORT", "9090")
	t.Setenv("RETROSPIN_DATABASE_PATH", ":memory:")
	t.Setenv("RETROSPIN_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q", cfg.Logging.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 7777\nauth:\n  dev_user_id: filedev\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("server port = %d, want 7777 from file", cfg.Server.Port)
	}
	if cfg.Auth.DevUserID != "filedev" {
		t.Errorf("dev user = %q", cfg.Auth.DevUserID)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 7777\nauth:\n  dev_user_id: filedev\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("RETROSPIN_SERVER_PORT", "6666")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 6666 {
		t.Errorf("server port = %d, want env override 6666", cfg.Server.Port)
	}
}

func TestValidateRejectsMissingAuth(t *testing.T) {
	cfg := defaultConfig()

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error without jwt_secret or dev_user_id")
	}

	cfg.Auth.JWTSecret = "0123456789abcdef0123456789abcdef"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed with secret set: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"zero batch size", func(c *Config) { c.Import.BatchSize = 0 }},
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Auth.DevUserID = "dev"
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RETROSPIN_SERVER_PORT", "server.port"},
		{"RETROSPIN_AUTH_JWT_SECRET", "auth.jwt_secret"},
		{"RETROSPIN_IMPORT_MAX_BODY_BYTES", "import.max_body_bytes"},
	}
	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
