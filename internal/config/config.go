// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The goalvault Authors

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// goalvault application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, an optional JSON file, and built-in defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings: the salt location and the
	// cryptographic work factors.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the embedded database.
	Storage Storage `envPrefix:"STORAGE_"`

	// Level holds the parameters of the gamified level ladder.
	Level Level `envPrefix:"LEVEL_"`

	// Workers holds configuration for the background consistency auditor.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged underneath the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control the
// cryptographic layer.
type App struct {
	// SaltPath is the file holding the 16-byte installation salt. The file
	// is created on first run and must never be deleted or regenerated:
	// doing so makes all previously encrypted data permanently
	// undecryptable.
	// Env: APP_SALT_PATH
	SaltPath string `env:"SALT_PATH"`

	// KDFIterations is the PBKDF2 work factor for deriving the encryption
	// key from the user's password. Values below the enforced floor of
	// 100000 are raised to it.
	// Env: APP_KDF_ITERATIONS
	KDFIterations int `env:"KDF_ITERATIONS"`

	// BcryptCost is the bcrypt cost for password hashes in the credential
	// store. Zero selects the library default.
	// Env: APP_BCRYPT_COST
	BcryptCost int `env:"BCRYPT_COST"`

	// LogPath, when set, redirects structured log output to the given file
	// so the interactive terminal stays clean.
	// Env: APP_LOG_PATH
	LogPath string `env:"LOG_PATH"`
}

// Storage groups the configuration for the persistence backend.
type Storage struct {
	// DB holds the embedded database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the embedded SQLite database.
type DB struct {
	// DSN is the SQLite data source name, normally a file path
	// (e.g. "db/goalvault.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Level holds the geometric ladder parameters of the level engine.
type Level struct {
	// Base is the net worth at which level 1 begins.
	// Env: LEVEL_BASE
	Base float64 `env:"BASE"`

	// Growth is the multiplier between consecutive level floors. Must be
	// greater than 1.
	// Env: LEVEL_GROWTH
	Growth float64 `env:"GROWTH"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// AuditInterval is how often the consistency auditor re-checks the
	// stored aggregate against the rebuilt goal balances.
	// Env: WORKERS_AUDIT_INTERVAL
	AuditInterval time.Duration `env:"AUDIT_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (earlier sources win):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
