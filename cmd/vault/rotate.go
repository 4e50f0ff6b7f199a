// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Change your passphrase and re-wrap every secret",
	Long: `Rotate re-derives the master key from a new passphrase and re-wraps
every password and file instance's key under it. If any instance fails to
unwrap under the current passphrase, nothing is changed.

Example:
  vault rotate --username alice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		newPassphrase, err := readPassphrase("New passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm new passphrase: ")
		if err != nil {
			return err
		}
		if newPassphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		return withSession(cmd.Context(), func(ctx context.Context) error {
			if err := svc.RotateMasterKey(ctx, newPassphrase); err != nil {
				return fmt.Errorf("rotate master key: %w", err)
			}
			fmt.Println("master key rotated")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(rotateCmd)
}
