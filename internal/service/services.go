// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brainburster/passkeeper-vault/internal/cascade"
	"github.com/brainburster/passkeeper-vault/internal/config"
	"github.com/brainburster/passkeeper-vault/internal/identity"
	"github.com/brainburster/passkeeper-vault/internal/logger"
	"github.com/brainburster/passkeeper-vault/internal/primitives"
	"github.com/brainburster/passkeeper-vault/internal/vault/userrecord"
)

// Services is the top-level container injected into cmd/vault.
type Services struct {
	// VaultService is pre-wrapped with validation middleware.
	VaultService VaultService
}

// NewServices wires internal/identity, internal/cascade,
// internal/primitives, and internal/vault/userrecord into a VaultService,
// creating the vault's users/ and data/ directories if they do not exist.
func NewServices(cfg *config.StructuredConfig, log *logger.Logger) (*Services, error) {
	log.Info().Msg("creating new services...")

	usersDir := filepath.Join(cfg.Storage.VaultDir, "users")
	dataDir := filepath.Join(cfg.Storage.VaultDir, "data")
	if err := os.MkdirAll(usersDir, 0o700); err != nil {
		return nil, fmt.Errorf("create users directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	idSvc := identity.NewService(cfg.KDF.TimeCost, cfg.KDF.MemoryCostKiB, cfg.KDF.Parallelism, cfg.KDF.KeyLength)
	blocks := primitives.NewBlockFactory()
	engine := cascade.NewEngine(blocks)
	hasher := primitives.NewHasher()
	random := primitives.NewRandomSource()
	repo := userrecord.NewRepository(usersDir, idSvc)

	core := NewCoreService(repo, idSvc, engine, hasher, random, dataDir, cfg.Cascade.BlockStreamSize, cfg.Cascade.DefaultAlgorithms)
	validated := NewValidationService(blocks.KnownAlgorithms()).Wrap(core)

	return &Services{VaultService: validated}, nil
}
