// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"sort"

	"dario.cat/mergo"
)

// Merge ranks. Higher ranks override lower ones regardless of the order the
// builder steps were called in.
const (
	rankDefaults = iota
	rankFile
	rankEnv
	rankFlags
)

type layer struct {
	rank int
	cfg  *StructuredConfig
}

type configBuilder struct {
	layers []layer
	err    error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		layers: make([]layer, 0, 4),
	}
}

func (b *configBuilder) add(rank int, cfg *StructuredConfig) {
	b.layers = append(b.layers, layer{rank: rank, cfg: cfg})
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	sort.SliceStable(b.layers, func(i, j int) bool {
		return b.layers[i].rank < b.layers[j].rank
	})

	config := new(StructuredConfig)
	for _, l := range b.layers {
		if err := mergo.Merge(config, l.cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.add(rankDefaults, Default())
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg, err := parseEnv()
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.add(rankEnv, envCfg)
	return b
}

func (b *configBuilder) withOverrides(cfg *StructuredConfig) *configBuilder {
	if cfg != nil {
		b.add(rankFlags, cfg)
	}
	return b
}

// withFile loads the config file named by the highest-ranked layer that
// sets one.
func (b *configBuilder) withFile() *configBuilder {
	path := ""
	rank := -1
	for _, l := range b.layers {
		if l.cfg.FilePath != "" && l.rank > rank {
			path, rank = l.cfg.FilePath, l.rank
		}
	}

	if path == "" {
		return b
	}

	fileCfg, err := parseFile(path)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.add(rankFile, fileCfg)
	return b
}
