// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/subtle"
	"errors"
)

var errBadPadding = errors.New("bad decrypt: invalid padding")

// pkcs7Pad appends 1..BlockSize bytes of padding to b.
func pkcs7Pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

// pkcs7Unpad strips PKCS#7 padding. All padding bytes are checked before
// the result is returned.
func pkcs7Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 || len(b)%aes.BlockSize != 0 {
		return nil, errBadPadding
	}

	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize {
		return nil, errBadPadding
	}

	good := 1
	for _, v := range b[len(b)-n:] {
		good &= subtle.ConstantTimeByteEq(v, byte(n))
	}
	if good != 1 {
		return nil, errBadPadding
	}

	return b[:len(b)-n], nil
}
