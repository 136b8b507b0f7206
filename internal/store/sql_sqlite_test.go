package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-core/internal/config"
	"github.com/MKhiriev/go-vault-core/internal/logger"
)

func TestEnsureDBFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "vault.db")

	created, err := ensureDBFile(path)
	require.NoError(t, err)
	assert.True(t, created)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

	created, err = ensureDBFile(path)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestNewConnectSQLite_WarnsOnSharedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	require.NoError(t, os.Chmod(path, 0o644))

	var buf bytes.Buffer
	log := &logger.Logger{Logger: zerolog.New(&buf)}

	db, err := NewConnectSQLite(context.Background(), config.Storage{DSN: path}, log)
	require.NoError(t, err)
	defer db.Close()

	assert.Contains(t, buf.String(), "consider chmod 600")
	assert.Contains(t, buf.String(), `"mode":"0644"`)
}

func TestNewConnectSQLite_UnwritableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	parent := t.TempDir()
	require.NoError(t, os.Chmod(parent, 0o500))
	t.Cleanup(func() { os.Chmod(parent, 0o700) })

	_, err := NewConnectSQLite(context.Background(), config.Storage{DSN: filepath.Join(parent, "sub", "vault.db")}, logger.Nop())
	assert.Error(t, err)
}
