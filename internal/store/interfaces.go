// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-vault-core/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// VaultRecordRepository persists the two per-vault records: the encryption
// configuration and the salt record. Both are written once, together, when a
// vault is created, and read before every key derivation.
type VaultRecordRepository interface {
	// CreateVault stores both records atomically. It fails with
	// [ErrVaultAlreadyExists] if either record is already present.
	CreateVault(ctx context.Context, cfg models.EncryptionConfig, salt models.SaltRecord) error
	// GetEncryptionConfig returns the stored configuration or
	// [ErrVaultNotInitialized].
	GetEncryptionConfig(ctx context.Context) (models.EncryptionConfig, error)
	// GetSaltRecord returns the stored salt record or
	// [ErrVaultNotInitialized].
	GetSaltRecord(ctx context.Context) (models.SaltRecord, error)
	// Exists reports whether a vault has been created.
	Exists(ctx context.Context) (bool, error)
}
