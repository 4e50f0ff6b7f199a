package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// StructuredJSONConfig is the JSON-specific representation of the application
// configuration. It mirrors [StructuredConfig] but uses JSON struct tags.
//
// After decoding, the values are mapped into a [StructuredConfig] by
// [parseJSON].
type StructuredJSONConfig struct {
	// App holds application-level settings loaded from the JSON file.
	App struct {
		LogLevel string `json:"log_level"`
		Version  string `json:"version"`
	} `json:"app,omitempty"`

	// KDF holds Argon2id tuning parameters loaded from the JSON file.
	KDF struct {
		TimeCost      uint32 `json:"time_cost"`
		MemoryCostKiB uint32 `json:"memory_cost_kib"`
		Parallelism   uint8  `json:"parallelism"`
		KeyLength     uint32 `json:"key_length"`
	} `json:"kdf,omitempty"`

	// Storage holds the vault directory layout loaded from the JSON file.
	Storage struct {
		VaultDir string `json:"vault_dir"`
	} `json:"storage,omitempty"`

	// Cascade holds the default cipher cascade loaded from the JSON file.
	Cascade struct {
		DefaultAlgorithms []string `json:"default_algorithms"`
		BlockStreamSize   int      `json:"block_stream_size"`
	} `json:"cascade,omitempty"`
}

// parseJSON opens the JSON file at jsonFilePath, decodes it into a
// [StructuredJSONConfig], and maps the result into a [StructuredConfig].
//
// JSONFilePath is intentionally left empty in the returned config so that
// the path is not re-processed during subsequent merge steps.
//
// Returns a wrapped error if the file cannot be opened or its contents
// cannot be decoded as valid JSON.
func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			LogLevel: jsonCfg.App.LogLevel,
			Version:  jsonCfg.App.Version,
		},
		KDF: KDF{
			TimeCost:      jsonCfg.KDF.TimeCost,
			MemoryCostKiB: jsonCfg.KDF.MemoryCostKiB,
			Parallelism:   jsonCfg.KDF.Parallelism,
			KeyLength:     jsonCfg.KDF.KeyLength,
		},
		Storage: Storage{
			VaultDir: jsonCfg.Storage.VaultDir,
		},
		Cascade: Cascade{
			DefaultAlgorithms: jsonCfg.Cascade.DefaultAlgorithms,
			BlockStreamSize:   jsonCfg.Cascade.BlockStreamSize,
		},
		JSONFilePath: "", // intentionally cleared to prevent re-processing
	}

	return cfg, nil
}
