package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestPassphraseReader(t *testing.T) {
	file := filepath.Join(t.TempDir(), "pass")
	require.NoError(t, os.WriteFile(file, []byte("from-file\r\n"), 0o600))

	tests := []struct {
		name    string
		reader  passphraseReader
		want    string
		wantErr error
	}{
		{
			name:   "file wins over env",
			reader: passphraseReader{file: file, lookup: envOf(map[string]string{PassphraseEnv: "from-env"})},
			want:   "from-file",
		},
		{
			name:   "env wins over stdin",
			reader: passphraseReader{lookup: envOf(map[string]string{PassphraseEnv: "from-env"}), stdin: bufio.NewReader(strings.NewReader("from-stdin\n"))},
			want:   "from-env",
		},
		{
			name:   "empty env falls through",
			reader: passphraseReader{lookup: envOf(map[string]string{PassphraseEnv: ""}), stdin: bufio.NewReader(strings.NewReader("from-stdin\nrest"))},
			want:   "from-stdin",
		},
		{
			name:   "stdin without newline",
			reader: passphraseReader{lookup: envOf(nil), stdin: bufio.NewReader(strings.NewReader("only"))},
			want:   "only",
		},
		{
			name:    "nothing",
			reader:  passphraseReader{lookup: envOf(nil), stdin: bufio.NewReader(strings.NewReader(""))},
			wantErr: errNoPassphrase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.reader.read()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestPassphraseReader_MissingFile(t *testing.T) {
	_, err := passphraseReader{file: filepath.Join(t.TempDir(), "missing"), lookup: envOf(nil)}.read()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPassphraseReader_LeavesRestOfStdin(t *testing.T) {
	stdin := bufio.NewReader(strings.NewReader("pw\nplaintext"))
	got, err := passphraseReader{lookup: envOf(nil), stdin: stdin}.read()
	require.NoError(t, err)
	assert.Equal(t, "pw", string(got))

	rest, err := stdin.ReadString(0)
	assert.Equal(t, "plaintext", rest)
	assert.Error(t, err)
}
