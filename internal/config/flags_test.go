package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseFlags tests the ParseFlags function
func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(t *testing.T, cfg *StructuredConfig)
	}{
		{
			name: "all flags set",
			args: []string{
				"-vault-dir", "/var/lib/vault",
				"-cascade", "AES,Serpent,Twofish",
				"-log-level", "debug",
				"-c", "/path/to/config.json",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/var/lib/vault", cfg.Storage.VaultDir)
				assert.Equal(t, []string{"AES", "Serpent", "Twofish"}, cfg.Cascade.DefaultAlgorithms)
				assert.Equal(t, "debug", cfg.App.LogLevel)
				assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
			},
		},
		{
			name: "config alias flag",
			args: []string{
				"-config", "/path/to/config.json",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
			},
		},
		{
			name: "partial flags",
			args: []string{
				"-vault-dir", "/tmp/vault",
				"-log-level", "warn",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/tmp/vault", cfg.Storage.VaultDir)
				assert.Equal(t, "warn", cfg.App.LogLevel)
				assert.Empty(t, cfg.Cascade.DefaultAlgorithms)
				assert.Empty(t, cfg.JSONFilePath)
			},
		},
		{
			name: "no flags",
			args: []string{},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Empty(t, cfg.Storage.VaultDir)
				assert.Empty(t, cfg.Cascade.DefaultAlgorithms)
				assert.Empty(t, cfg.App.LogLevel)
				assert.Empty(t, cfg.JSONFilePath)
			},
		},
		{
			name: "single cascade algorithm",
			args: []string{"-cascade", "AES"},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, []string{"AES"}, cfg.Cascade.DefaultAlgorithms)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flag.CommandLine for each test
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

			// Set os.Args to simulate command line arguments
			oldArgs := os.Args
			os.Args = append([]string{"cmd"}, tt.args...)
			defer func() { os.Args = oldArgs }()

			cfg := ParseFlags()
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}
