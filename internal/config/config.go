// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

// Package config provides layered configuration loading for Retrospin using
// Koanf v2: built-in defaults, an optional YAML file, then environment
// variables, with env vars taking the highest priority.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the Retrospin server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Import   ImportConfig   `koanf:"import"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Auth     AuthConfig     `koanf:"auth"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file path. ":memory:" for tests.
	Path string `koanf:"path" validate:"required"`

	// MaxMemory is DuckDB's memory limit (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 = runtime.NumCPU().
	Threads int `koanf:"threads" validate:"min=0"`
}

// ImportConfig holds history import settings.
type ImportConfig struct {
	// BatchSize is the number of rows per insert batch. The batch size
	// respects storage payload limits and has no effect on semantics.
	BatchSize int `koanf:"batch_size" validate:"min=1"`

	// MaxBodyBytes caps the accepted import payload size.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"min=1"`
}

// CatalogConfig holds settings for the remote catalog metadata service.
type CatalogConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`

	// Concurrency bounds the lookup worker pool.
	Concurrency int `koanf:"concurrency" validate:"min=1"`

	// RequestsPerSecond limits outbound request rate. 0 = unlimited.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"min=0"`
}

// AuthConfig holds settings for the bearer-token user resolution middleware.
// Token issuance and refresh live in the authentication collaborator.
type AuthConfig struct {
	// JWTSecret signs and verifies bearer tokens. Required outside dev mode.
	JWTSecret string `koanf:"jwt_secret"`

	// DevUserID, when set, bypasses token verification and resolves every
	// request to this user. Development only.
	DevUserID string `koanf:"dev_user_id"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// validate is the package-level validator instance. validator caches struct
// metadata, so a single instance is shared.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Auth.JWTSecret == "" && c.Auth.DevUserID == "" {
		return fmt.Errorf("invalid configuration: auth.jwt_secret or auth.dev_user_id must be set")
	}
	return nil
}
