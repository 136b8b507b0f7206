// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-core/internal/config"
	"github.com/MKhiriev/go-vault-core/internal/logger"
)

// Storages groups the storage repositories and owns the connection behind
// them.
type Storages struct {
	// VaultRecords is the SQLite-backed vault record repository.
	VaultRecords VaultRecordRepository

	db *DB
}

// NewStorages initialises the storage layer. It performs the following
// steps:
//  1. Opens an SQLite connection to cfg.DSN, creating the database file if
//     it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Wires a fresh [VaultRecordRepository] to the connection.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Debug().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		VaultRecords: NewVaultRecordRepository(db, logger),
		db:           db,
	}, nil
}

// Close releases the database connection.
func (s *Storages) Close() error {
	return s.db.Close()
}
