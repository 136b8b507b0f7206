// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrInvalidEncryptionConfig is returned by [EncryptionConfig.Validate] when
// one of the derivation or cipher parameters is missing or out of range.
var ErrInvalidEncryptionConfig = errors.New("invalid encryption configuration")

// Encoding names the reversible text encoding used for every field of a
// cipher blob. Neither supported alphabet contains the '$' delimiter.
type Encoding string

const (
	// EncodingHex is lowercase hexadecimal. It is the default.
	EncodingHex Encoding = "hex"
	// EncodingBase64 is standard padded base64 (RFC 4648 §4).
	EncodingBase64 Encoding = "base64"
)

// EncodeToString encodes b with the receiver's alphabet. An empty Encoding
// behaves as [EncodingHex].
func (e Encoding) EncodeToString(b []byte) string {
	if e == EncodingBase64 {
		return base64.StdEncoding.EncodeToString(b)
	}
	return hex.EncodeToString(b)
}

// DecodeString reverses [Encoding.EncodeToString].
func (e Encoding) DecodeString(s string) ([]byte, error) {
	if e == EncodingBase64 {
		return base64.StdEncoding.DecodeString(s)
	}
	return hex.DecodeString(s)
}

// Valid reports whether e is a supported encoding (or empty, meaning hex).
func (e Encoding) Valid() bool {
	switch e {
	case "", EncodingHex, EncodingBase64:
		return true
	}
	return false
}

// Defaults applied to a freshly initialised vault when the caller leaves a
// field zero.
const (
	DefaultKeyBits    = 256
	DefaultIterations = 100_000
	DefaultSaltBytes  = 64
)

// EncryptionConfig is the encryption-configuration record of a vault. It is
// written once at vault creation and read before every key derivation.
type EncryptionConfig struct {
	// Bits is the AES key size: 128, 192 or 256.
	Bits int `json:"bits" yaml:"bits"`

	// Iterations is the PBKDF2 round count (work factor).
	Iterations int `json:"iterations" yaml:"iterations"`

	// SaltBytes is the length of the random salt generated at vault creation.
	SaltBytes int `json:"salt_bytes" yaml:"salt_bytes"`

	// Encoding is the text encoding of cipher blob fields.
	Encoding Encoding `json:"encoding" yaml:"encoding"`
}

// KeyBytes returns the derived key length in bytes.
func (c EncryptionConfig) KeyBytes() int {
	return c.Bits / 8
}

// WithDefaults returns a copy of c with zero fields replaced by the package
// defaults.
func (c EncryptionConfig) WithDefaults() EncryptionConfig {
	if c.Bits == 0 {
		c.Bits = DefaultKeyBits
	}
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.SaltBytes == 0 {
		c.SaltBytes = DefaultSaltBytes
	}
	if c.Encoding == "" {
		c.Encoding = EncodingHex
	}
	return c
}

// Validate checks every field and returns an error wrapping
// [ErrInvalidEncryptionConfig] for the first invalid one.
func (c EncryptionConfig) Validate() error {
	switch c.Bits {
	case 128, 192, 256:
	default:
		return fmt.Errorf("%w: bits must be 128, 192 or 256, got %d", ErrInvalidEncryptionConfig, c.Bits)
	}

	if c.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidEncryptionConfig, c.Iterations)
	}

	if c.SaltBytes < 1 {
		return fmt.Errorf("%w: salt length must be positive, got %d", ErrInvalidEncryptionConfig, c.SaltBytes)
	}

	if !c.Encoding.Valid() {
		return fmt.Errorf("%w: unsupported encoding %q", ErrInvalidEncryptionConfig, c.Encoding)
	}

	return nil
}
