// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators enforces the input-level invariants spec.md assumes
// its store operations are only ever called with: non-empty descriptions
// and passphrases, a non-empty algorithm list drawn from the cascade
// engine's known cipher names, and non-empty identity credentials.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values or structures.
//     Supports optional field-level scoping for targeted validation.
//
// internal/service wraps its core vault operations with a Validator before
// ever touching internal/identity or the internal/vault stores, so a
// malformed request fails fast with a named error instead of surfacing as
// an obscure cascade or store failure several layers down.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may perform structural validation, semantic checks,
// cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(ctx context.Context, obj any, fields ...string) error
}
