// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/go-vault-core/internal/config"
	"github.com/MKhiriev/go-vault-core/internal/entropy"
	"github.com/MKhiriev/go-vault-core/internal/logger"
	"github.com/MKhiriev/go-vault-core/internal/metrics"
	"github.com/MKhiriev/go-vault-core/internal/service"
	"github.com/MKhiriev/go-vault-core/internal/store"
	"github.com/MKhiriev/go-vault-core/internal/workers"
)

// App holds everything a command needs after startup.
type App struct {
	cfg      *config.StructuredConfig
	log      *logger.Logger
	registry *prometheus.Registry
	storages *store.Storages
	services *service.Services
	workers  *workers.Workers
}

// NewApp wires the application from cfg. log may be nil, in which case a
// file logger is built from cfg.Log.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.NewFileLogger("vaultctl", cfg.Log.Level, cfg.Log.File)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create storages: %w", err)
	}

	return &App{
		cfg:      cfg,
		log:      log,
		registry: registry,
		storages: storages,
		services: service.NewServices(storages, entropySource(cfg.Entropy), m, log),
		workers:  workers.NewWorkers(workers.NewRecoveryWorker(cfg.Workers.RecoverFolders, log, m)),
	}, nil
}

func entropySource(cfg config.Entropy) entropy.Source {
	if cfg.StaticPepper != "" {
		return entropy.NewStaticSource([]byte(cfg.StaticPepper))
	}
	return entropy.NewMachineSource(cfg.MachineIDPaths...)
}

// Vault returns the vault service.
func (a *App) Vault() service.VaultService {
	return a.services.VaultService
}

// Startup runs the startup workers.
func (a *App) Startup(ctx context.Context) error {
	return a.workers.Run(ctx)
}

// Close writes the metrics textfile, if configured, and closes the store.
func (a *App) Close() error {
	var errs []error
	if path := a.cfg.Metrics.File; path != "" {
		if err := prometheus.WriteToTextfile(path, a.registry); err != nil {
			a.log.Err(err).Str("func", "App.Close").Str("path", path).Msg("failed to write metrics")
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if err := a.storages.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storages: %w", err))
	}
	return errors.Join(errs...)
}
