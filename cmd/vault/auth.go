// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
)

// withSession logs in with --username and a prompted passphrase, runs fn
// against the resulting session, and logs out unconditionally afterward —
// every authenticated subcommand is a single vault invocation, so the
// session never outlives one process (spec.md treats the CLI surface
// itself as an external collaborator and leaves its shape to the
// implementation).
func withSession(ctx context.Context, fn func(ctx context.Context) error) error {
	user, err := requireUsername()
	if err != nil {
		return err
	}
	passphrase, err := readPassphrase("Passphrase: ")
	if err != nil {
		return err
	}

	if err = svc.Login(ctx, user, passphrase); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer svc.Logout()

	return fn(ctx)
}
