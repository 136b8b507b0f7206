package workers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-core/internal/crypto"
	"github.com/MKhiriev/go-vault-core/internal/metrics"
)

func TestRecoveryWorker_Run(t *testing.T) {
	interrupted := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(interrupted, "a.txt"), []byte("hello"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(interrupted, crypto.TarFile+crypto.PartSuffix), []byte("half"), 0o600))

	broken := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(broken, crypto.EncryptedFile), []byte("x"), 0o600))

	resting := t.TempDir()
	missing := filepath.Join(t.TempDir(), "missing")

	m := metrics.New(prometheus.NewRegistry())
	w := NewRecoveryWorker([]string{interrupted, broken, resting, missing}, nil, m)

	err := w.Run(context.Background())
	assert.ErrorIs(t, err, crypto.ErrUnrecoverable)
	assert.ErrorIs(t, err, crypto.ErrIO)
	assert.Contains(t, err.Error(), broken)

	st, err := crypto.InspectFolder(interrupted)
	require.NoError(t, err)
	assert.Equal(t, crypto.StatePlain, st)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues(metrics.OpRecoverFolder, metrics.ResultOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues(metrics.OpRecoverFolder, metrics.ResultError)))
}

func TestRecoveryWorker_NoFolders(t *testing.T) {
	assert.NoError(t, NewRecoveryWorker(nil, nil, nil).Run(context.Background()))
}
