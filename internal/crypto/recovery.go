// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-core/internal/logger"
	"github.com/MKhiriev/go-vault-core/internal/metrics"
)

// RecoveryAction tells what [RecoverFolder] did.
type RecoveryAction int

const (
	// RecoveryNone: the folder was already at rest.
	RecoveryNone RecoveryAction = iota
	// RecoveryDiscardedPartial: only unfinished ".part" files were removed.
	RecoveryDiscardedPartial
	// RecoveryRolledBackEncrypt: an encryption that never produced the
	// encrypted artifact was undone; user files are untouched.
	RecoveryRolledBackEncrypt
	// RecoveryRolledForwardEncrypt: an encryption whose encrypted artifact
	// was complete had its plaintext cleanup finished.
	RecoveryRolledForwardEncrypt
	// RecoveryRolledForwardDecrypt: a decryption whose decrypted archive was
	// complete was re-extracted and cleaned up.
	RecoveryRolledForwardDecrypt
	// RecoveryRolledBackDecrypt: a decrypted archive that does not parse was
	// discarded; the folder is encrypted again.
	RecoveryRolledBackDecrypt
)

func (a RecoveryAction) String() string {
	switch a {
	case RecoveryNone:
		return "none"
	case RecoveryDiscardedPartial:
		return "discarded-partial"
	case RecoveryRolledBackEncrypt:
		return "rolled-back-encrypt"
	case RecoveryRolledForwardEncrypt:
		return "rolled-forward-encrypt"
	case RecoveryRolledForwardDecrypt:
		return "rolled-forward-decrypt"
	case RecoveryRolledBackDecrypt:
		return "rolled-back-decrypt"
	}
	return "unknown"
}

// RecoverFolder inspects dir and completes or undoes an interrupted archive
// operation. It needs no key: every decision is made from which artifacts
// exist. Recovery is idempotent.
//
//	.part files                      removed first
//	decrypted, parses                re-extract, remove encrypted, iv, decrypted
//	decrypted unreadable, iv + enc.  remove decrypted
//	decrypted unreadable, no enc.    ErrUnrecoverable
//	iv + encrypted + tar             remove user entries, then tar
//	iv, no encrypted                 remove tar, then iv
//	tar alone                        remove tar
//	encrypted without iv             ErrUnrecoverable
//
// log and m may be nil.
func RecoverFolder(ctx context.Context, dir string, log *logger.Logger, m *metrics.Metrics) (action RecoveryAction, err error) {
	if log == nil {
		log = logger.Nop()
	}
	if m == nil {
		m = metrics.Nop()
	}
	defer func() { m.Observe(metrics.OpRecoverFolder, err) }()

	if err = ctx.Err(); err != nil {
		return RecoveryNone, err
	}

	l, err := scanFolder(dir)
	if err != nil {
		return RecoveryNone, err
	}

	action = RecoveryNone
	for _, part := range l.parts {
		if err = removeArtifact(dir, part); err != nil {
			return RecoveryNone, err
		}
		action = RecoveryDiscardedPartial
	}

	switch {
	case l.decrypted:
		if err = checkStage(dir); err != nil {
			if !errors.Is(err, ErrDecryptFailure) {
				return action, err
			}
			if !l.iv || !l.encrypted {
				return action, fmt.Errorf("%w: %s holds an unreadable decrypted archive and no ciphertext: %v",
					ErrUnrecoverable, dir, err)
			}
			log.Warn().Err(err).Str("func", "RecoverFolder").Str("dir", dir).Msg("discarding unreadable decrypted archive")
			if err = removeArtifact(dir, DecryptedFile); err != nil {
				return action, err
			}
			action = RecoveryRolledBackDecrypt
			break
		}
		if err = extractStage(dir); err != nil {
			return action, err
		}
		if err = finishDecrypt(dir); err != nil {
			return action, err
		}
		action = RecoveryRolledForwardDecrypt

	case l.iv && l.encrypted && l.tar:
		if err = removePlaintext(dir, l.userEntries); err != nil {
			return action, err
		}
		action = RecoveryRolledForwardEncrypt

	case l.iv && !l.encrypted:
		if err = removeArtifact(dir, TarFile); err != nil {
			return action, err
		}
		if err = removeArtifact(dir, IVFile); err != nil {
			return action, err
		}
		action = RecoveryRolledBackEncrypt

	case l.tar && !l.encrypted:
		if err = removeArtifact(dir, TarFile); err != nil {
			return action, err
		}
		action = RecoveryRolledBackEncrypt

	case l.encrypted && !l.iv:
		return action, fmt.Errorf("%w: %s holds encrypted without iv", ErrUnrecoverable, dir)
	}

	if action != RecoveryNone {
		log.Info().
			Str("func", "RecoverFolder").
			Str("dir", dir).
			Str("action", action.String()).
			Msg("folder recovered")
	}
	return action, nil
}
