// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package entropy

import (
	"context"
	"fmt"
)

// StaticSource returns the same pepper on every call. It is meant for
// headless machines without a stable identity and for tests.
type StaticSource struct {
	value []byte
}

// NewStaticSource copies value into a new [StaticSource].
func NewStaticSource(value []byte) *StaticSource {
	return &StaticSource{value: append([]byte(nil), value...)}
}

// Pepper implements [Source]. Each call returns a fresh copy so callers may
// wipe it.
func (s *StaticSource) Pepper(ctx context.Context) (Pepper, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.value) == 0 {
		return nil, fmt.Errorf("%w: static pepper is empty", ErrEntropySource)
	}
	return append(Pepper(nil), s.value...), nil
}
