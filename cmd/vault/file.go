// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	fileDescription string
	fileAlgorithms  string
	fileID          uint64
	filePath        string
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Manage encrypted files",
}

var fileEncryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt a file into the vault",
	Long: `Example:
  vault file encrypt --username alice --description photo --path ./beach.jpg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if fileDescription == "" {
			return fmt.Errorf("--description is required")
		}
		if filePath == "" {
			return fmt.Errorf("--path is required")
		}
		return withSession(cmd.Context(), func(ctx context.Context) error {
			id, err := svc.CreateFileInstance(ctx, fileDescription, parseAlgorithms(fileAlgorithms))
			if err != nil {
				return fmt.Errorf("create file instance: %w", err)
			}
			if err = svc.EncryptFile(ctx, id, filePath); err != nil {
				return fmt.Errorf("encrypt file: %w", err)
			}
			fmt.Printf("encrypted %q as id %d\n", filePath, id)
			return nil
		})
	},
}

var fileDecryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt a file out of the vault",
	Long: `Example:
  vault file decrypt --username alice --id 1 --path ./restored.jpg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if fileID == 0 {
			return fmt.Errorf("--id is required")
		}
		if filePath == "" {
			return fmt.Errorf("--path is required")
		}
		return withSession(cmd.Context(), func(ctx context.Context) error {
			if err := svc.DecryptFile(ctx, fileID, filePath); err != nil {
				return fmt.Errorf("decrypt file: %w", err)
			}
			fmt.Printf("decrypted id %d to %q\n", fileID, filePath)
			return nil
		})
	},
}

func init() {
	fileCmd.PersistentFlags().StringVarP(&fileDescription, "description", "d", "", "file description")
	fileCmd.PersistentFlags().StringVarP(&fileAlgorithms, "algorithms", "a", "", "comma-separated cipher cascade, e.g. AES,Serpent")
	fileCmd.PersistentFlags().Uint64Var(&fileID, "id", 0, "file instance id")
	fileCmd.PersistentFlags().StringVarP(&filePath, "path", "p", "", "source path to encrypt, or destination path to decrypt to")

	fileCmd.AddCommand(fileEncryptCmd, fileDecryptCmd)
	rootCmd.AddCommand(fileCmd)
}
