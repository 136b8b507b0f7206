// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
	"sync/atomic"
)

// IVSize is the length of every initialization vector.
const IVSize = aes.BlockSize

// CipherContext binds AES-CBC encrypt and decrypt operations to one key and
// one IV. A context encrypts at most once; decrypting is unrestricted.
// Contexts do not authenticate anything.
type CipherContext struct {
	IV []byte

	block cipher.Block
	used  atomic.Bool
}

// NewCipherContext builds a context keyed with the session key. A nil iv
// selects 16 fresh random bytes; a supplied iv is used as is (decrypt path)
// and must be [IVSize] bytes long.
func (s *Session) NewCipherContext(iv []byte) (*CipherContext, error) {
	if iv == nil {
		fresh, err := randomBytes(IVSize)
		if err != nil {
			return nil, fmt.Errorf("generate iv: %w", err)
		}
		iv = fresh
	} else if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", ErrDecryptFailure, IVSize, len(iv))
	} else {
		iv = append([]byte(nil), iv...)
	}

	var block cipher.Block
	err := s.withKey(func(key []byte) error {
		if len(key)*8 != s.cfg.Bits {
			return fmt.Errorf("%w: key is %d bits, config says %d", ErrConfiguration, len(key)*8, s.cfg.Bits)
		}
		b, err := aes.NewCipher(key)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		block = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CipherContext{IV: iv, block: block}, nil
}

func (c *CipherContext) claim() error {
	if !c.used.CompareAndSwap(false, true) {
		return ErrIVReused
	}
	return nil
}

// Encrypt pads plaintext with PKCS#7 and encrypts it in CBC mode.
func (c *CipherContext) Encrypt(plaintext []byte) ([]byte, error) {
	if err := c.claim(); err != nil {
		return nil, err
	}

	padded := pkcs7Pad(plaintext)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.IV).CryptBlocks(out, padded)
	return out, nil
}

// Decrypt reverses [CipherContext.Encrypt]. A ciphertext that is empty, not
// block aligned, or carries invalid padding yields [ErrDecryptFailure].
func (c *CipherContext) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a positive multiple of %d",
			ErrDecryptFailure, len(ciphertext), aes.BlockSize)
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, c.IV).CryptBlocks(out, ciphertext)

	plaintext, err := pkcs7Unpad(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptFailure, err)
	}
	return plaintext, nil
}

// EncryptWriter returns a writer that encrypts everything written to it into
// w. Close must be called to flush the final padded block; it does not close
// w.
func (c *CipherContext) EncryptWriter(w io.Writer) (io.WriteCloser, error) {
	if err := c.claim(); err != nil {
		return nil, err
	}
	return &cbcWriter{dst: w, mode: cipher.NewCBCEncrypter(c.block, c.IV)}, nil
}

// DecryptReader returns a reader yielding the plaintext of the CBC stream r.
// Padding errors surface from Read as [ErrDecryptFailure] once the end of r
// is reached.
func (c *CipherContext) DecryptReader(r io.Reader) io.Reader {
	return &cbcReader{src: r, mode: cipher.NewCBCDecrypter(c.block, c.IV)}
}
