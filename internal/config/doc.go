// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// for vaultctl.
//
// Configuration is assembled from several sources. Later sources override
// earlier non-zero fields:
//  1. Built-in defaults
//  2. Config file (JSON or YAML, chosen by extension)
//  3. Environment variables prefixed with VAULT_
//  4. Command-line flags
//
// The main entry point is [Load].
package config
