// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	// ErrInvalidDataProvided is returned when the caller supplies a request
	// that fails the validation middleware's structural checks.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrNotLoggedIn is returned by any instance operation attempted
	// without an active session.
	ErrNotLoggedIn = errors.New("no active session: login first")

	// ErrWrongCredentials is returned when Login's username/passphrase
	// fail verification against the stored user record.
	ErrWrongCredentials = errors.New("wrong username or passphrase")
)
