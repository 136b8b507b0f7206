// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-vault-core/internal/crypto"
	"github.com/MKhiriev/go-vault-core/models"
)

// VaultService orchestrates the vault lifecycle around the crypto core:
// creating the vault records, unlocking a session from them, and running
// codec operations with an explicit session.
type VaultService interface {
	// Initialize creates a new vault with cfg (zero fields take defaults).
	Initialize(ctx context.Context, cfg models.EncryptionConfig) error
	// Unlock reads the vault records once and derives the session key.
	Unlock(ctx context.Context, passphrase []byte) (*crypto.Session, error)

	EncryptString(ctx context.Context, session *crypto.Session, plaintext []byte) (string, error)
	DecryptString(ctx context.Context, session *crypto.Session, blob string) ([]byte, error)

	EncryptFolder(ctx context.Context, session *crypto.Session, dir string) error
	DecryptFolder(ctx context.Context, session *crypto.Session, dir string) error

	// FolderState and RecoverFolder need no session.
	FolderState(ctx context.Context, dir string) (crypto.FolderState, error)
	RecoverFolder(ctx context.Context, dir string) (crypto.RecoveryAction, error)
}
