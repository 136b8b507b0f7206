// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "errors"

// ErrInvalidSaltRecord is returned by [SaltRecord.Validate] when the salt or
// the HMAC secret is empty.
var ErrInvalidSaltRecord = errors.New("invalid salt record")

// SaltRecord is the persisted per-vault secret material that is not derived
// from the passphrase. Both fields are immutable for the vault's lifetime.
type SaltRecord struct {
	// Salt is fed to every key derivation.
	Salt []byte

	// HMACSecret keys the authentication tag of every cipher blob.
	HMACSecret []byte
}

// Validate reports whether both fields are present.
func (r SaltRecord) Validate() error {
	if len(r.Salt) == 0 {
		return errors.Join(ErrInvalidSaltRecord, errors.New("salt is empty"))
	}
	if len(r.HMACSecret) == 0 {
		return errors.Join(ErrInvalidSaltRecord, errors.New("hmac secret is empty"))
	}
	return nil
}
