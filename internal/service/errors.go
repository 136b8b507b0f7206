// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-core/internal/crypto"
)

var (
	// ErrVaultExists is returned by Initialize when the record store already
	// holds a vault. Existing records are never overwritten.
	ErrVaultExists = fmt.Errorf("%w: vault already initialized", crypto.ErrStateConflict)

	// ErrVaultNotInitialized is returned by Unlock before Initialize.
	ErrVaultNotInitialized = fmt.Errorf("%w: vault is not initialized", crypto.ErrConfiguration)

	// ErrEmptyPassphrase is returned when no passphrase was supplied.
	ErrEmptyPassphrase = fmt.Errorf("%w: passphrase is empty", crypto.ErrConfiguration)

	// ErrNoSession is returned when a codec operation gets a nil session.
	ErrNoSession = fmt.Errorf("%w: no session", crypto.ErrSessionLocked)
)

// Process exit codes, one per error kind.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitConfiguration  = 2
	ExitTamperDetected = 3
	ExitDecryptFailure = 4
	ExitStateConflict  = 5
)

// ExitCode maps err to a process exit code. Tampering is checked first so a
// tampered blob is never reported as a plain decrypt failure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, crypto.ErrTamperDetected):
		return ExitTamperDetected
	case errors.Is(err, crypto.ErrDecryptFailure):
		return ExitDecryptFailure
	case errors.Is(err, crypto.ErrStateConflict):
		return ExitStateConflict
	case errors.Is(err, crypto.ErrConfiguration):
		return ExitConfiguration
	}
	return ExitFailure
}
