// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-vault-core/models"
)

const (
	encryptionConfigTable = "encryption_config"
	saltTable             = "salt"

	// Both tables hold a single row with this id.
	vaultRowID = 1
)

// psql builds SQLite statements with "?" placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildSelectEncryptionConfigQuery() (string, []any, error) {
	return psql.
		Select("bits", "iterations", "salt_bytes", "encoding").
		From(encryptionConfigTable).
		Where(sq.Eq{"id": vaultRowID}).
		ToSql()
}

func buildSelectSaltQuery() (string, []any, error) {
	return psql.
		Select("salt", "hmac_secret").
		From(saltTable).
		Where(sq.Eq{"id": vaultRowID}).
		ToSql()
}

func buildInsertEncryptionConfigQuery(cfg models.EncryptionConfig) (string, []any, error) {
	return psql.
		Insert(encryptionConfigTable).
		Columns("id", "bits", "iterations", "salt_bytes", "encoding").
		Values(vaultRowID, cfg.Bits, cfg.Iterations, cfg.SaltBytes, string(cfg.Encoding)).
		ToSql()
}

func buildInsertSaltQuery(salt models.SaltRecord) (string, []any, error) {
	return psql.
		Insert(saltTable).
		Columns("id", "salt", "hmac_secret").
		Values(vaultRowID, salt.Salt, salt.HMACSecret).
		ToSql()
}

func buildCountVaultRecordsQuery() (string, []any, error) {
	return psql.
		Select("COUNT(*)").
		From(encryptionConfigTable).
		Where(sq.Eq{"id": vaultRowID}).
		ToSql()
}
