// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package entropy reads machine-bound identity (hardware address plus
// machine identifier) and turns it into the pepper that is prepended to the
// user passphrase before key derivation.
//
// A pepper is recomputed on every call and is never cached or persisted.
package entropy

import (
	"context"
	"errors"
)

//go:generate mockgen -source=entropy.go -destination=../mock/entropy_mock.go -package=mock

// ErrEntropySource is returned when the host cannot report its identity.
// It is fatal to the derivation that asked for the pepper.
var ErrEntropySource = errors.New("entropy source unavailable")

// Pepper is machine-derived secret-like material. The bytes are owned by the
// caller, who is expected to wipe them after use.
type Pepper []byte

// Source produces the pepper for the current machine. Implementations must
// be deterministic per machine.
type Source interface {
	Pepper(ctx context.Context) (Pepper, error)
}
