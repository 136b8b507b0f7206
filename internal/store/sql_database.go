// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"

	"github.com/MKhiriev/go-vault-core/internal/logger"
	"github.com/MKhiriev/go-vault-core/migrations"
)

// DB is the record-store connection.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// Migrate brings the schema up to date and logs every migration it ran.
func (db *DB) Migrate(ctx context.Context) error {
	applied, err := migrations.Up(ctx, db.DB)
	if err != nil {
		return err
	}
	for _, m := range applied {
		db.logger.Info().Str("func", "DB.Migrate").Int64("version", m.Version).Str("source", m.Source).Msg("migration applied")
	}
	return nil
}
