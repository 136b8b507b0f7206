// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-core/internal/logger"
	"github.com/MKhiriev/go-vault-core/models"
)

type vaultRecordRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewVaultRecordRepository returns the SQLite-backed [VaultRecordRepository].
func NewVaultRecordRepository(db *DB, logger *logger.Logger) VaultRecordRepository {
	return &vaultRecordRepository{
		db:     db,
		logger: logger,
	}
}

func (v *vaultRecordRepository) CreateVault(ctx context.Context, cfg models.EncryptionConfig, salt models.SaltRecord) error {
	log := logger.FromContext(ctx)

	exists, err := v.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return ErrVaultAlreadyExists
	}

	cfgQuery, cfgArgs, err := buildInsertEncryptionConfigQuery(cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	saltQuery, saltArgs, err := buildInsertSaltQuery(salt)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "vaultRecordRepository.CreateVault").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, cfgQuery, cfgArgs...); err != nil {
		log.Err(err).Str("func", "vaultRecordRepository.CreateVault").Msg("failed to insert encryption config")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if _, err := tx.ExecContext(ctx, saltQuery, saltArgs...); err != nil {
		log.Err(err).Str("func", "vaultRecordRepository.CreateVault").Msg("failed to insert salt record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "vaultRecordRepository.CreateVault").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	log.Info().
		Int("bits", cfg.Bits).
		Int("iterations", cfg.Iterations).
		Str("encoding", string(cfg.Encoding)).
		Msg("vault records created")
	return nil
}

func (v *vaultRecordRepository) GetEncryptionConfig(ctx context.Context) (models.EncryptionConfig, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectEncryptionConfigQuery()
	if err != nil {
		return models.EncryptionConfig{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		cfg      models.EncryptionConfig
		encoding string
	)
	err = v.db.QueryRowContext(ctx, query, args...).Scan(&cfg.Bits, &cfg.Iterations, &cfg.SaltBytes, &encoding)
	if errors.Is(err, sql.ErrNoRows) {
		return models.EncryptionConfig{}, ErrVaultNotInitialized
	}
	if err != nil {
		log.Err(err).Str("func", "vaultRecordRepository.GetEncryptionConfig").Msg("failed to scan encryption config row")
		return models.EncryptionConfig{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	cfg.Encoding = models.Encoding(encoding)

	return cfg, nil
}

func (v *vaultRecordRepository) GetSaltRecord(ctx context.Context) (models.SaltRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectSaltQuery()
	if err != nil {
		return models.SaltRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var rec models.SaltRecord
	err = v.db.QueryRowContext(ctx, query, args...).Scan(&rec.Salt, &rec.HMACSecret)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SaltRecord{}, ErrVaultNotInitialized
	}
	if err != nil {
		log.Err(err).Str("func", "vaultRecordRepository.GetSaltRecord").Msg("failed to scan salt row")
		return models.SaltRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return rec, nil
}

func (v *vaultRecordRepository) Exists(ctx context.Context) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCountVaultRecordsQuery()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var n int
	if err := v.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		log.Err(err).Str("func", "vaultRecordRepository.Exists").Msg("failed to count vault records")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return n > 0, nil
}
