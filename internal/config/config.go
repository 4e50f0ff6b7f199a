// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// StructuredConfig is the top-level configuration container for the
// passkeeper-vault application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the log level and
	// reported version.
	App App `envPrefix:"APP_"`

	// KDF holds the Argon2id tuning parameters used to derive the
	// key-encryption material from a user's passphrase.
	KDF KDF `envPrefix:"KDF_"`

	// Storage holds the on-disk layout of the vault (the directory tree
	// described in spec.md §6).
	Storage Storage `envPrefix:"STORAGE_"`

	// Cascade holds the default cipher cascade applied to newly created
	// password and file instances.
	Cascade Cascade `envPrefix:"CASCADE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// LogLevel controls the minimum zerolog level emitted by the logger
	// (e.g. "debug", "info", "warn").
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// Version is the semantic version string of the running binary.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// KDF holds the Argon2id parameters used by the identity package's
// PasswordAndHash and master-key derivation helpers.
//
// Tuning follows the OWASP (2024) recommendation for Argon2id: one iteration,
// 64 MiB of memory, four threads, a 32-byte digest.
type KDF struct {
	// TimeCost is the number of Argon2id iterations.
	// Env: KDF_TIME_COST
	TimeCost uint32 `env:"TIME_COST"`

	// MemoryCostKiB is the Argon2id memory cost in kibibytes.
	// Env: KDF_MEMORY_COST_KIB
	MemoryCostKiB uint32 `env:"MEMORY_COST_KIB"`

	// Parallelism is the number of Argon2id lanes (threads).
	// Env: KDF_PARALLELISM
	Parallelism uint8 `env:"PARALLELISM"`

	// KeyLength is the length in bytes of the derived digest.
	// Env: KDF_KEY_LENGTH
	KeyLength uint32 `env:"KEY_LENGTH"`
}

// Storage describes the on-disk layout of the vault.
type Storage struct {
	// VaultDir is the root directory containing the "users/" and "data/"
	// subdirectories described in spec.md §6.
	// Env: STORAGE_VAULT_DIR
	VaultDir string `env:"VAULT_DIR"`
}

// Cascade holds the default ordered cipher list applied to newly created
// password and file instances when the caller does not specify one
// explicitly.
type Cascade struct {
	// DefaultAlgorithms is the default encryption algorithm list, expressed
	// as comma-separated names drawn from {AES, RC6, SM4, Twofish, Serpent}.
	// Env: CASCADE_DEFAULT_ALGORITHMS
	DefaultAlgorithms []string `env:"DEFAULT_ALGORITHMS" envSeparator:","`

	// BlockStreamSize is the chunk size, in bytes, used when streaming a
	// file through the cascade (spec.md §4.4).
	// Env: CASCADE_BLOCK_STREAM_SIZE
	BlockStreamSize int `env:"BLOCK_STREAM_SIZE"`
}

// RegistrationClock is the granularity at which registration timestamps are
// recorded; kept distinct from time.Now() to make tests deterministic.
const RegistrationClock = time.Second

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, cfg.validate()
}

// GetEnvConfig loads and validates configuration from environment variables
// and an optional JSON file only, skipping [withFlags]. cmd/vault parses its
// own flags with cobra/pflag rather than the stdlib flag package ParseFlags
// uses, so chaining withFlags here would have it read — and potentially
// fail on — cobra's flag set instead of its own.
func GetEnvConfig() (*StructuredConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withJSON().
		build()
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, cfg.validate()
}

// applyDefaults fills in zero-valued fields with production-sane defaults so
// that a bare `go run` with no environment or flags still produces a usable
// configuration.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.KDF.TimeCost == 0 {
		cfg.KDF.TimeCost = 1
	}
	if cfg.KDF.MemoryCostKiB == 0 {
		cfg.KDF.MemoryCostKiB = 64 * 1024
	}
	if cfg.KDF.Parallelism == 0 {
		cfg.KDF.Parallelism = 4
	}
	if cfg.KDF.KeyLength == 0 {
		cfg.KDF.KeyLength = 32
	}
	if cfg.Storage.VaultDir == "" {
		cfg.Storage.VaultDir = "./vault-data"
	}
	if len(cfg.Cascade.DefaultAlgorithms) == 0 {
		cfg.Cascade.DefaultAlgorithms = []string{"AES", "Serpent", "Twofish"}
	}
	if cfg.Cascade.BlockStreamSize == 0 {
		cfg.Cascade.BlockStreamSize = 1 << 20 // 1 MiB
	}
}
