// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"crypto/rand"
	"crypto/sha512"
	"fmt"
	"io"
	"time"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/pbkdf2"

	"github.com/MKhiriev/go-vault-core/internal/entropy"
	"github.com/MKhiriev/go-vault-core/internal/logger"
	"github.com/MKhiriev/go-vault-core/models"
)

// HMACSecretSize is the length of the HMAC secret generated for a new vault.
const HMACSecretSize = 32

// DeriveKey turns passphrase into a cfg.Bits-bit secret key:
//
//	password = pepper || passphrase
//	key      = PBKDF2-HMAC-SHA512(password, salt, cfg.Iterations, cfg.Bits/8)
//
// The pepper is read from src on every call. The concatenated password is
// wiped before returning. Derivation either fully succeeds or returns an
// error matching [ErrConfiguration] or [ErrEntropySource].
func DeriveKey(ctx context.Context, src entropy.Source, passphrase, salt []byte, cfg models.EncryptionConfig) ([]byte, error) {
	log := logger.FromContext(ctx)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: salt is empty", ErrConfiguration)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: no entropy source", ErrConfiguration)
	}

	log.Info().
		Int("bits", cfg.Bits).
		Int("iterations", cfg.Iterations).
		Int("salt_len", len(salt)).
		Msg("deriving secret key")

	start := time.Now()

	pepper, err := src.Pepper(ctx)
	if err != nil {
		log.Err(err).Str("func", "DeriveKey").Msg("failed to read machine pepper")
		return nil, fmt.Errorf("generate pepper: %w", err)
	}

	password := make([]byte, 0, len(pepper)+len(passphrase))
	password = append(password, pepper...)
	password = append(password, passphrase...)
	memguard.WipeBytes(pepper)

	key := pbkdf2.Key(password, salt, cfg.Iterations, cfg.KeyBytes(), sha512.New)
	memguard.WipeBytes(password)

	log.Info().
		Int("key_len", len(key)).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("secret key derivation complete")

	return key, nil
}

// GenerateSalt returns cfg.SaltBytes bytes from the OS CSPRNG. A CSPRNG
// failure matches [ErrEntropySource].
func GenerateSalt(cfg models.EncryptionConfig) ([]byte, error) {
	if cfg.SaltBytes < 1 {
		return nil, fmt.Errorf("%w: salt length must be positive, got %d", ErrConfiguration, cfg.SaltBytes)
	}
	return randomBytes(cfg.SaltBytes)
}

// GenerateHMACSecret returns a fresh [HMACSecretSize]-byte HMAC secret.
func GenerateHMACSecret() ([]byte, error) {
	return randomBytes(HMACSecretSize)
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("%w: read random bytes: %w", ErrEntropySource, err)
	}
	return b, nil
}
