// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The goalvault Authors

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.SaltPath == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Level.Base <= 0 || cfg.Level.Growth <= 1 {
		return ErrInvalidLevelConfigs
	}

	if cfg.Workers.AuditInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
