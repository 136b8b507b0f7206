// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"github.com/spf13/pflag"
)

// Flags holds the command-line overrides. Values are copied into a
// [StructuredConfig] only for flags the user actually set, so unset flags
// never shadow the environment or the config file.
type Flags struct {
	fs *pflag.FlagSet

	configPath     string
	dsn            string
	logLevel       string
	logFile        string
	metricsFile    string
	staticPepper   string
	recoverFolders []string
	bits           int
	iterations     int
	saltBytes      int
	encoding       string
}

// BindFlags registers the configuration flags on fs.
//
// Flags:
//
//	-c/--config            JSON or YAML config file
//	-d/--dsn               record store database file
//	--log-level            zerolog level
//	--log-file             log file path
//	--metrics-file         Prometheus textfile written after each command
//	--static-pepper        fixed machine pepper
//	--recover              folder swept for interrupted operations (repeatable)
//	--bits                 key size for a new vault
//	--iterations           PBKDF2 rounds for a new vault
//	--salt-bytes           salt length for a new vault
//	--encoding             blob encoding for a new vault (hex, base64)
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}

	fs.StringVarP(&f.configPath, "config", "c", "", "JSON or YAML config file path")
	fs.StringVarP(&f.dsn, "dsn", "d", "", "Record store database file")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.logFile, "log-file", "", "Log file path")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "Write metrics in Prometheus text format to this file")
	fs.StringVar(&f.staticPepper, "static-pepper", "", "Fixed machine pepper for hosts without a stable identity")
	fs.StringSliceVar(&f.recoverFolders, "recover", nil, "Folder to sweep for interrupted operations at startup")
	fs.IntVar(&f.bits, "bits", 0, "Key size in bits for a new vault (128, 192, 256)")
	fs.IntVar(&f.iterations, "iterations", 0, "PBKDF2 iterations for a new vault")
	fs.IntVar(&f.saltBytes, "salt-bytes", 0, "Salt length in bytes for a new vault")
	fs.StringVar(&f.encoding, "encoding", "", "Cipher blob encoding for a new vault (hex, base64)")

	return f
}

// Config returns the overrides layer built from the flags that were set.
func (f *Flags) Config() *StructuredConfig {
	cfg := &StructuredConfig{}

	set := func(name string, apply func()) {
		if f.fs.Changed(name) {
			apply()
		}
	}

	set("config", func() { cfg.FilePath = f.configPath })
	set("dsn", func() { cfg.Storage.DSN = f.dsn })
	set("log-level", func() { cfg.Log.Level = f.logLevel })
	set("log-file", func() { cfg.Log.File = f.logFile })
	set("metrics-file", func() { cfg.Metrics.File = f.metricsFile })
	set("static-pepper", func() { cfg.Entropy.StaticPepper = f.staticPepper })
	set("recover", func() { cfg.Workers.RecoverFolders = f.recoverFolders })
	set("bits", func() { cfg.Encryption.Bits = f.bits })
	set("iterations", func() { cfg.Encryption.Iterations = f.iterations })
	set("salt-bytes", func() { cfg.Encryption.SaltBytes = f.saltBytes })
	set("encoding", func() { cfg.Encryption.Encoding = f.encoding })

	return cfg
}
