// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-core/internal/crypto"
	"github.com/MKhiriev/go-vault-core/internal/entropy"
	"github.com/MKhiriev/go-vault-core/internal/logger"
	"github.com/MKhiriev/go-vault-core/internal/metrics"
	"github.com/MKhiriev/go-vault-core/internal/store"
	"github.com/MKhiriev/go-vault-core/models"
)

type vaultService struct {
	records store.VaultRecordRepository
	source  entropy.Source
	metrics *metrics.Metrics

	logger *logger.Logger
}

// NewVaultService wires the vault service. m may be nil.
func NewVaultService(records store.VaultRecordRepository, source entropy.Source, m *metrics.Metrics, log *logger.Logger) VaultService {
	if m == nil {
		m = metrics.Nop()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &vaultService{
		records: records,
		source:  source,
		metrics: m,
		logger:  log,
	}
}

func (v *vaultService) Initialize(ctx context.Context, cfg models.EncryptionConfig) error {
	log := v.logger.GetChildLogger()

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", crypto.ErrConfiguration, err)
	}

	exists, err := v.records.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check vault records: %w", err)
	}
	if exists {
		return ErrVaultExists
	}

	salt, err := crypto.GenerateSalt(cfg)
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	secret, err := crypto.GenerateHMACSecret()
	if err != nil {
		return fmt.Errorf("generate hmac secret: %w", err)
	}

	err = v.records.CreateVault(ctx, cfg, models.SaltRecord{Salt: salt, HMACSecret: secret})
	if errors.Is(err, store.ErrVaultAlreadyExists) {
		return ErrVaultExists
	}
	if err != nil {
		log.Err(err).Str("func", "vaultService.Initialize").Msg("failed to persist vault records")
		return fmt.Errorf("persist vault records: %w", err)
	}

	log.Info().
		Str("func", "vaultService.Initialize").
		Int("bits", cfg.Bits).
		Int("iterations", cfg.Iterations).
		Msg("vault initialized")
	return nil
}

func (v *vaultService) Unlock(ctx context.Context, passphrase []byte) (*crypto.Session, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}

	cfg, err := v.records.GetEncryptionConfig(ctx)
	if err != nil {
		return nil, v.recordError(err)
	}
	salt, err := v.records.GetSaltRecord(ctx)
	if err != nil {
		return nil, v.recordError(err)
	}

	session, err := crypto.Unlock(ctx, crypto.UnlockParams{
		Passphrase: passphrase,
		Config:     cfg,
		Salt:       salt,
		Source:     v.source,
		Logger:     v.logger,
		Metrics:    v.metrics,
	})
	if err != nil {
		v.logger.Err(err).Str("func", "vaultService.Unlock").Msg("unlock failed")
		return nil, err
	}

	return session, nil
}

func (v *vaultService) recordError(err error) error {
	if errors.Is(err, store.ErrVaultNotInitialized) {
		return ErrVaultNotInitialized
	}
	v.logger.Err(err).Str("func", "vaultService.Unlock").Msg("failed to read vault records")
	return fmt.Errorf("read vault records: %w", err)
}

func (v *vaultService) EncryptString(ctx context.Context, session *crypto.Session, plaintext []byte) (string, error) {
	if session == nil {
		return "", ErrNoSession
	}
	return session.EncryptString(ctx, plaintext)
}

func (v *vaultService) DecryptString(ctx context.Context, session *crypto.Session, blob string) ([]byte, error) {
	if session == nil {
		return nil, ErrNoSession
	}
	return session.DecryptString(ctx, blob)
}

func (v *vaultService) EncryptFolder(ctx context.Context, session *crypto.Session, dir string) error {
	if session == nil {
		return ErrNoSession
	}
	return crypto.NewArchiveCodec(dir, session).EncryptFolder(ctx)
}

func (v *vaultService) DecryptFolder(ctx context.Context, session *crypto.Session, dir string) error {
	if session == nil {
		return ErrNoSession
	}
	return crypto.NewArchiveCodec(dir, session).DecryptFolder(ctx)
}

func (v *vaultService) FolderState(ctx context.Context, dir string) (crypto.FolderState, error) {
	if err := ctx.Err(); err != nil {
		return crypto.StateTransient, err
	}
	return crypto.InspectFolder(dir)
}

func (v *vaultService) RecoverFolder(ctx context.Context, dir string) (crypto.RecoveryAction, error) {
	return crypto.RecoverFolder(ctx, dir, v.logger, v.metrics)
}
