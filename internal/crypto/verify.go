// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "crypto/subtle"

// Verify reports whether computed equals expected. Tags of different length
// are rejected without scanning; equal-length tags are compared in constant
// time so the position of the first differing byte is not observable.
func Verify(expected, computed []byte) bool {
	if len(expected) != len(computed) {
		return false
	}
	return subtle.ConstantTimeCompare(expected, computed) == 1
}
