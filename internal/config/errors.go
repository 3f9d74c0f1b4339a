package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN or unsupported in-memory DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, missing salt path).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidLevelConfigs indicates an unusable level ladder
	// (non-positive base or growth factor not above 1).
	ErrInvalidLevelConfigs = errors.New("invalid level configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, zero audit interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
