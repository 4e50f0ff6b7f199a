// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/brainburster/passkeeper-vault/internal/vault/passwordstore"
)

var (
	passwordDescription string
	passwordAlgorithms  string
	passwordID          uint64
	passwordClipboard   bool
)

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Manage stored passwords",
}

var passwordAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store a new password",
	Long: `Example:
  vault password add --username alice --description gmail`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if passwordDescription == "" {
			return fmt.Errorf("--description is required")
		}
		secret, err := readPassphrase("Password to store: ")
		if err != nil {
			return err
		}

		return withSession(cmd.Context(), func(ctx context.Context) error {
			id, err := svc.CreatePasswordInstance(ctx, passwordDescription, secret, parseAlgorithms(passwordAlgorithms))
			if err != nil {
				return fmt.Errorf("create password instance: %w", err)
			}
			fmt.Printf("stored %q as id %d\n", passwordDescription, id)
			return nil
		})
	},
}

var passwordGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Retrieve a password by id or description",
	Long: `Example:
  vault password get --username alice --id 1
  vault password get --username alice --description gmail
  vault password get --username alice --id 1 --clipboard`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(ctx context.Context) error {
			if passwordID != 0 {
				found, err := svc.FindPasswordInstanceByID(ctx, passwordID)
				if err != nil {
					return fmt.Errorf("find password instance: %w", err)
				}
				return outputPassword(found)
			}
			if passwordDescription == "" {
				return fmt.Errorf("--id or --description is required")
			}
			found, err := svc.FindPasswordInstanceByDescription(ctx, passwordDescription)
			if err != nil {
				return fmt.Errorf("find password instance: %w", err)
			}
			return outputPassword(found)
		})
	},
}

var passwordListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored passwords",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(ctx context.Context) error {
			all, err := svc.ListAllPasswordInstance(ctx)
			if err != nil {
				return fmt.Errorf("list password instances: %w", err)
			}
			for _, p := range all {
				printPassword(p)
			}
			return nil
		})
	},
}

var passwordRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Delete a password by id",
	Long: `Example:
  vault password rm --username alice --id 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if passwordID == 0 {
			return fmt.Errorf("--id is required")
		}
		return withSession(cmd.Context(), func(ctx context.Context) error {
			if err := svc.RemovePasswordInstance(ctx, passwordID); err != nil {
				return fmt.Errorf("remove password instance: %w", err)
			}
			fmt.Printf("removed id %d\n", passwordID)
			return nil
		})
	},
}

func init() {
	passwordCmd.PersistentFlags().StringVarP(&passwordDescription, "description", "d", "", "password description")
	passwordCmd.PersistentFlags().StringVarP(&passwordAlgorithms, "algorithms", "a", "", "comma-separated cipher cascade, e.g. AES,Serpent")
	passwordCmd.PersistentFlags().Uint64Var(&passwordID, "id", 0, "password instance id")
	passwordGetCmd.Flags().BoolVarP(&passwordClipboard, "clipboard", "c", false, "copy the password to the clipboard instead of printing it")

	passwordCmd.AddCommand(passwordAddCmd, passwordGetCmd, passwordListCmd, passwordRmCmd)
	rootCmd.AddCommand(passwordCmd)
}

func printPassword(p passwordstore.Unlocked) {
	fmt.Printf("%d\t%s\t%s\n", p.ID, p.Description, p.DecryptedPassword)
}

// outputPassword displays a resolved password instance per --clipboard:
// copied to the OS clipboard and withheld from stdout/scrollback, or printed
// as usual.
func outputPassword(p passwordstore.Unlocked) error {
	if !passwordClipboard {
		printPassword(p)
		return nil
	}
	if err := clipboard.WriteAll(p.DecryptedPassword); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	fmt.Printf("%d\t%s\tcopied to clipboard\n", p.ID, p.Description)
	return nil
}

func parseAlgorithms(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	algs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			algs = append(algs, p)
		}
	}
	return algs
}
