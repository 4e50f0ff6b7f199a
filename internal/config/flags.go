package config

import (
	"flag"
	"strings"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-vault-dir      root directory of the vault (users/, data/ subtrees)
//	-cascade        default comma-separated cipher cascade, e.g. "AES,Serpent"
//	-log-level      zerolog level (debug, info, warn, error)
//	-c/-config      json file path with configs
func ParseFlags() *StructuredConfig {
	var vaultDir string
	var cascade string
	var logLevel string
	var jsonConfigPath string

	flag.StringVar(&vaultDir, "vault-dir", "", "Root directory of the vault")
	flag.StringVar(&cascade, "cascade", "", "Default comma-separated cipher cascade")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	var algorithms []string
	if cascade != "" {
		algorithms = strings.Split(cascade, ",")
	}

	return &StructuredConfig{
		App: App{
			LogLevel: logLevel,
		},
		Storage: Storage{
			VaultDir: vaultDir,
		},
		Cascade: Cascade{
			DefaultAlgorithms: algorithms,
		},
		JSONFilePath: jsonConfigPath,
	}
}
