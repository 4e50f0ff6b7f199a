// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the merged [StructuredConfig] satisfies the
// invariants that must hold regardless of whether defaults have been
// applied yet.
//
// It deliberately does not reject zero-valued fields that [applyDefaults]
// is responsible for filling in (log level, KDF tuning, vault directory,
// cascade list); it only rejects values that are present but malformed.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *StructuredConfig) validate() error {
	for _, name := range cfg.Cascade.DefaultAlgorithms {
		if !isKnownAlgorithmName(name) {
			return ErrInvalidCascadeConfig
		}
	}

	if cfg.KDF.Parallelism > 0 && cfg.KDF.MemoryCostKiB > 0 &&
		uint64(cfg.KDF.MemoryCostKiB) < 8*uint64(cfg.KDF.Parallelism) {
		return ErrInvalidKDFConfig
	}

	return nil
}

// isKnownAlgorithmName reports whether name is one of the five cipher names
// recognised by the cascade engine (spec.md §6).
func isKnownAlgorithmName(name string) bool {
	switch name {
	case "AES", "RC6", "SM4", "Twofish", "Serpent":
		return true
	default:
		return false
	}
}
