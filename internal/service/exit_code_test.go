package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-vault-core/internal/crypto"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "plain error", err: errors.New("boom"), want: ExitFailure},
		{name: "canceled", err: context.Canceled, want: ExitFailure},
		{name: "io", err: crypto.ErrIO, want: ExitFailure},
		{name: "configuration", err: crypto.ErrConfiguration, want: ExitConfiguration},
		{name: "session locked", err: crypto.ErrSessionLocked, want: ExitConfiguration},
		{name: "tamper", err: fmt.Errorf("decrypt: %w", crypto.ErrTamperDetected), want: ExitTamperDetected},
		{name: "decrypt failure", err: crypto.ErrDecryptFailure, want: ExitDecryptFailure},
		{name: "malformed blob", err: crypto.ErrMalformedBlob, want: ExitDecryptFailure},
		{name: "conflict", err: crypto.ErrStateConflict, want: ExitStateConflict},
		{name: "unrecoverable", err: crypto.ErrUnrecoverable, want: ExitStateConflict},
		{name: "vault exists", err: ErrVaultExists, want: ExitStateConflict},
		{name: "not initialized", err: ErrVaultNotInitialized, want: ExitConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
