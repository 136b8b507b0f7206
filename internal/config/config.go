// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-vault-core/models"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "VAULT_"

// StructuredConfig is the top-level configuration container for vaultctl.
// It is populated by merging defaults, an optional config file, environment
// variables and command-line flags.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
//   - json/yaml: keys used in the config file.
type StructuredConfig struct {
	// Storage holds the record-store settings.
	Storage Storage `envPrefix:"STORAGE_" json:"storage" yaml:"storage"`

	// Log holds logger settings.
	Log Log `envPrefix:"LOG_" json:"log" yaml:"log"`

	// Entropy overrides how the machine pepper is obtained.
	Entropy Entropy `envPrefix:"ENTROPY_" json:"entropy" yaml:"entropy"`

	// Encryption holds the parameters written into a newly initialised
	// vault. An existing vault always uses its stored parameters.
	Encryption Encryption `envPrefix:"ENCRYPTION_" json:"encryption" yaml:"encryption"`

	// Metrics controls the Prometheus textfile export.
	Metrics Metrics `envPrefix:"METRICS_" json:"metrics" yaml:"metrics"`

	// Workers holds settings for the startup workers.
	Workers Workers `envPrefix:"WORKERS_" json:"workers" yaml:"workers"`

	// FilePath is the optional path to a JSON or YAML config file.
	// Env: VAULT_CONFIG
	FilePath string `env:"CONFIG" json:"-" yaml:"-"`
}

// Storage holds record-store settings.
type Storage struct {
	// DSN is the SQLite database file holding the vault records.
	// Env: VAULT_STORAGE_DSN
	DSN string `env:"DSN" json:"dsn" yaml:"dsn"`
}

// Log holds logger settings.
type Log struct {
	// Level is a zerolog level name (debug, info, warn, error).
	// Env: VAULT_LOG_LEVEL
	Level string `env:"LEVEL" json:"level" yaml:"level"`

	// File receives the JSON log stream.
	// Env: VAULT_LOG_FILE
	File string `env:"FILE" json:"file" yaml:"file"`
}

// Entropy overrides the machine identity reader.
type Entropy struct {
	// StaticPepper replaces the machine pepper. Meant for CI and headless
	// machines without a stable identity.
	// Env: VAULT_ENTROPY_STATIC_PEPPER
	StaticPepper string `env:"STATIC_PEPPER" json:"static_pepper" yaml:"static_pepper"`

	// MachineIDPaths are tried in order for the machine identifier.
	// Env: VAULT_ENTROPY_MACHINE_ID_PATHS (colon separated)
	MachineIDPaths []string `env:"MACHINE_ID_PATHS" envSeparator:":" json:"machine_id_paths" yaml:"machine_id_paths"`
}

// Encryption mirrors [models.EncryptionConfig] with config tags.
type Encryption struct {
	// Env: VAULT_ENCRYPTION_BITS
	Bits int `env:"BITS" json:"bits" yaml:"bits"`
	// Env: VAULT_ENCRYPTION_ITERATIONS
	Iterations int `env:"ITERATIONS" json:"iterations" yaml:"iterations"`
	// Env: VAULT_ENCRYPTION_SALT_BYTES
	SaltBytes int `env:"SALT_BYTES" json:"salt_bytes" yaml:"salt_bytes"`
	// Env: VAULT_ENCRYPTION_ENCODING
	Encoding string `env:"ENCODING" json:"encoding" yaml:"encoding"`
}

// Model converts e into the vault record value.
func (e Encryption) Model() models.EncryptionConfig {
	return models.EncryptionConfig{
		Bits:       e.Bits,
		Iterations: e.Iterations,
		SaltBytes:  e.SaltBytes,
		Encoding:   models.Encoding(e.Encoding),
	}
}

// Metrics holds the metrics export settings.
type Metrics struct {
	// File receives the collected metrics in the Prometheus text format
	// after every command. Empty disables the export.
	// Env: VAULT_METRICS_FILE
	File string `env:"FILE" json:"file" yaml:"file"`
}

// Workers holds startup worker settings.
type Workers struct {
	// RecoverFolders are swept for interrupted archive operations before
	// any command runs.
	// Env: VAULT_WORKERS_RECOVER_FOLDERS (colon separated)
	RecoverFolders []string `env:"RECOVER_FOLDERS" envSeparator:":" json:"recover_folders" yaml:"recover_folders"`
}

// Default returns the built-in configuration layer.
func Default() *StructuredConfig {
	enc := models.EncryptionConfig{}.WithDefaults()
	dir := defaultDataDir()

	return &StructuredConfig{
		Storage: Storage{DSN: filepath.Join(dir, "vault.db")},
		Log: Log{
			Level: "info",
			File:  filepath.Join(dir, "vaultctl.log"),
		},
		Encryption: Encryption{
			Bits:       enc.Bits,
			Iterations: enc.Iterations,
			SaltBytes:  enc.SaltBytes,
			Encoding:   string(enc.Encoding),
		},
	}
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".vaultctl"
	}
	return filepath.Join(base, "vaultctl")
}

// Load builds, merges and validates the configuration. overrides holds the
// values of explicitly set command-line flags and may be nil.
func Load(overrides *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withOverrides(overrides).
		withFile().
		build()
}
