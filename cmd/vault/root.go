// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brainburster/passkeeper-vault/internal/config"
	"github.com/brainburster/passkeeper-vault/internal/logger"
	"github.com/brainburster/passkeeper-vault/internal/service"
)

var (
	username   string
	vaultDir   string
	logLevel   string
	cfg        *config.StructuredConfig
	log        *logger.Logger
	svc        service.VaultService
)

var rootCmd = &cobra.Command{
	Use:   "vault",
	Short: "A local, single-user password-and-file vault",
	Long: `vault stores password and file secrets on disk, encrypted with a
five-cipher cascade under a key derived from your passphrase.

Commands:
  register          Create a new vault identity
  password add      Store a new password
  password get      Retrieve a password by id or description
  password list     List all stored passwords
  password rm       Delete a password
  file encrypt      Encrypt a file into the vault
  file decrypt      Decrypt a file out of the vault
  rotate            Change your passphrase and re-wrap every secret`,
	Version: "0.1.0-dev",

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			return err
		}
		cmd.SetContext(log.WithContext(cmd.Context()))
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "vault username")
	rootCmd.PersistentFlags().StringVar(&vaultDir, "vault-dir", "", "vault storage directory (overrides STORAGE_VAULT_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides APP_LOG_LEVEL)")
}

// setup loads configuration, builds the logger, and wires the VaultService.
// Run once per process via PersistentPreRunE, before any subcommand's RunE.
func setup() error {
	loaded, err := config.GetEnvConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if vaultDir != "" {
		loaded.Storage.VaultDir = vaultDir
	}
	if logLevel != "" {
		loaded.App.LogLevel = logLevel
	}
	cfg = loaded
	log = logger.NewLogger("cmd", cfg.App.LogLevel)

	services, err := service.NewServices(cfg, log)
	if err != nil {
		return fmt.Errorf("create services: %w", err)
	}
	svc = services.VaultService
	return nil
}

// requireUsername returns the --username flag value or a usage error if it
// was not supplied; every command that authenticates needs it.
func requireUsername() (string, error) {
	if username == "" {
		return "", fmt.Errorf("--username is required")
	}
	return username, nil
}
