// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new vault identity",
	Long: `Create a new vault identity bound to --username.

Example:
  vault register --username alice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUsername()
		if err != nil {
			return err
		}
		passphrase, err := readPassphrase("New passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		if err = svc.Register(cmd.Context(), user, passphrase); err != nil {
			return fmt.Errorf("register: %w", err)
		}
		fmt.Printf("registered %q\n", user)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
