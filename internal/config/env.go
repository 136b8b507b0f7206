// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv reads the environment layer. Every variable carries [EnvPrefix];
// nested structs add their envPrefix tag, so Storage.DSN is read from
// VAULT_STORAGE_DSN. Unset variables leave the zero value, which the
// builder treats as "not provided".
func parseEnv() (*StructuredConfig, error) {
	cfg, err := env.ParseAsWithOptions[StructuredConfig](env.Options{Prefix: EnvPrefix})
	if err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	return &cfg, nil
}
