// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-core/internal/entropy"
)

// Error kinds. Every error returned by this package matches exactly one of
// the first six with [errors.Is], except context cancellation, which is
// returned as ctx.Err(). The remaining ones are refinements that also match
// their parent kind.
var (
	// ErrConfiguration indicates missing or invalid derivation parameters.
	// Fatal, no retry.
	ErrConfiguration = errors.New("invalid crypto configuration")

	// ErrEntropySource indicates the machine identity could not be read.
	ErrEntropySource = entropy.ErrEntropySource

	// ErrIO indicates a filesystem or stream failure during an archive stage.
	ErrIO = errors.New("archive i/o failure")

	// ErrStateConflict indicates an encrypt of an encrypted folder, a decrypt
	// of a plain folder, or any archive operation on a transient folder.
	ErrStateConflict = errors.New("folder state conflict")

	// ErrTamperDetected indicates the authentication tag did not match.
	// Decryption was not attempted.
	ErrTamperDetected = errors.New("hmac tamper detected")

	// ErrDecryptFailure indicates a cipher-level failure (bad padding, bad
	// length, bad IV) that points to a wrong key or malformed data rather
	// than tampering.
	ErrDecryptFailure = errors.New("decrypt failure")
)

var (
	// ErrSessionLocked is returned by every operation on a locked session.
	ErrSessionLocked = fmt.Errorf("%w: session is locked", ErrConfiguration)

	// ErrIVReused is returned when a cipher context is asked to encrypt twice.
	ErrIVReused = fmt.Errorf("%w: initialization vector already used", ErrConfiguration)

	// ErrMalformedBlob is returned when a cipher blob cannot be parsed.
	ErrMalformedBlob = fmt.Errorf("%w: malformed cipher blob", ErrDecryptFailure)

	// ErrUnrecoverable is returned by recovery when the folder cannot be
	// brought back to a resting state without losing data.
	ErrUnrecoverable = fmt.Errorf("%w: folder cannot be recovered", ErrStateConflict)
)

// OpError records the archive stage and path that failed. It unwraps to both
// the error kind and the underlying cause.
type OpError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func ioError(op, path string, err error) error {
	return &OpError{Op: op, Path: path, Kind: ErrIO, Err: err}
}
