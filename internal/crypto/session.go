// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-vault-core/internal/entropy"
	"github.com/MKhiriev/go-vault-core/internal/logger"
	"github.com/MKhiriev/go-vault-core/internal/metrics"
	"github.com/MKhiriev/go-vault-core/models"
)

// UnlockParams carries everything [Unlock] needs. Config and Salt are the
// records read from the vault's record store.
type UnlockParams struct {
	Passphrase []byte
	Config     models.EncryptionConfig
	Salt       models.SaltRecord
	Source     entropy.Source

	// Logger and Metrics are optional.
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

// Session is an unlocked vault. It is the only owner of the derived secret
// key, which lives sealed in a memguard enclave and is opened only for the
// duration of a single cipher setup. A Session is safe for concurrent use;
// the key is read-only between [Session.Rekey] calls.
type Session struct {
	mu      sync.RWMutex
	key     *memguard.Enclave
	hmacKey *memguard.Enclave

	cfg    models.EncryptionConfig
	salt   []byte
	source entropy.Source

	log     *logger.Logger
	metrics *metrics.Metrics
}

// Unlock derives the secret key and returns a ready [Session]. The caller's
// passphrase slice is not modified.
func Unlock(ctx context.Context, p UnlockParams) (*Session, error) {
	cfg := p.Config
	if cfg.Encoding == "" {
		cfg.Encoding = models.EncodingHex
	}

	if err := p.Salt.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	log := p.Logger
	if log == nil {
		log = logger.Nop()
	}
	m := p.Metrics
	if m == nil {
		m = metrics.Nop()
	}

	s := &Session{
		cfg:     cfg,
		salt:    append([]byte(nil), p.Salt.Salt...),
		source:  p.Source,
		log:     log,
		metrics: m,
	}

	key, err := s.derive(ctx, p.Passphrase, s.salt, s.cfg)
	if err != nil {
		return nil, err
	}

	s.key = memguard.NewEnclave(key)
	s.hmacKey = memguard.NewEnclave(append([]byte(nil), p.Salt.HMACSecret...))

	return s, nil
}

func (s *Session) derive(ctx context.Context, passphrase, salt []byte, cfg models.EncryptionConfig) ([]byte, error) {
	start := time.Now()
	key, err := DeriveKey(s.log.WithContext(ctx), s.source, passphrase, salt, cfg)
	s.metrics.ObserveDerive(start, err)
	return key, err
}

// Rekey derives a key from a new passphrase with the same salt and
// configuration, then replaces the session key atomically. On failure the
// previous key stays in place. A concurrent [Session.Lock] wins: Rekey then
// returns [ErrSessionLocked].
func (s *Session) Rekey(ctx context.Context, passphrase []byte) error {
	s.mu.RLock()
	if s.key == nil {
		s.mu.RUnlock()
		return ErrSessionLocked
	}
	salt := append([]byte(nil), s.salt...)
	cfg := s.cfg
	s.mu.RUnlock()
	defer memguard.WipeBytes(salt)

	key, err := s.derive(ctx, passphrase, salt, cfg)
	if err != nil {
		return err
	}
	enclave := memguard.NewEnclave(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil {
		return ErrSessionLocked
	}
	s.key = enclave

	s.log.Info().Msg("session key replaced")
	return nil
}

// Lock drops the sealed key and HMAC secret. Every later operation on the
// session fails with [ErrSessionLocked]. Lock is idempotent.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil {
		return
	}
	s.key = nil
	s.hmacKey = nil
	memguard.WipeBytes(s.salt)
	s.log.Info().Msg("session locked")
}

// Locked reports whether [Session.Lock] has been called.
func (s *Session) Locked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key == nil
}

// Config returns the encryption configuration the session was unlocked with.
func (s *Session) Config() models.EncryptionConfig {
	return s.cfg
}

// Logger returns the session logger.
func (s *Session) Logger() *logger.Logger {
	return s.log
}

// Metrics returns the session collectors.
func (s *Session) Metrics() *metrics.Metrics {
	return s.metrics
}

// withSecret opens the enclave chosen by pick under the read lock and hands
// the plaintext to fn.
// The plaintext buffer is destroyed as soon as fn returns; fn must not
// retain it.
func (s *Session) withSecret(pick func(*Session) *memguard.Enclave, fn func(secret []byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := pick(s)
	if e == nil {
		return ErrSessionLocked
	}

	buf, err := e.Open()
	if err != nil {
		return fmt.Errorf("%w: open sealed key: %w", ErrConfiguration, err)
	}
	defer buf.Destroy()

	return fn(buf.Bytes())
}

func (s *Session) withKey(fn func(key []byte) error) error {
	return s.withSecret(func(s *Session) *memguard.Enclave { return s.key }, fn)
}

func (s *Session) withHMACKey(fn func(key []byte) error) error {
	return s.withSecret(func(s *Session) *memguard.Enclave { return s.hmacKey }, fn)
}
