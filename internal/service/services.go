// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-vault-core/internal/entropy"
	"github.com/MKhiriev/go-vault-core/internal/logger"
	"github.com/MKhiriev/go-vault-core/internal/metrics"
	"github.com/MKhiriev/go-vault-core/internal/store"
)

// Services groups the application services.
type Services struct {
	VaultService VaultService
}

// NewServices wires every service to the storage layer.
func NewServices(storages *store.Storages, source entropy.Source, m *metrics.Metrics, logger *logger.Logger) *Services {
	return &Services{
		VaultService: NewVaultService(storages.VaultRecords, source, m, logger),
	}
}
