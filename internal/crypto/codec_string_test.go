package crypto

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-core/internal/entropy"
	"github.com/MKhiriev/go-vault-core/internal/metrics"
	"github.com/MKhiriev/go-vault-core/models"
)

// flipField decodes one blob field, flips a bit in its first byte and
// re-encodes it, so the mutated blob still parses.
func flipField(t *testing.T, blob string, field int, enc models.Encoding) string {
	t.Helper()
	parts := strings.Split(blob, BlobDelimiter)
	require.Len(t, parts, 3)

	raw, err := enc.DecodeString(parts[field])
	require.NoError(t, err)
	raw[0] ^= 0x01
	parts[field] = enc.EncodeToString(raw)

	return strings.Join(parts, BlobDelimiter)
}

func TestStringCodec_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, enc := range []models.Encoding{models.EncodingHex, models.EncodingBase64} {
		t.Run(string(enc), func(t *testing.T) {
			s := newTestSession(t, testConfig(enc), "correct horse")

			for _, msg := range []string{"", "hunter2", strings.Repeat("long message ", 100), "ünïcødé ✓"} {
				blob, err := s.EncryptString(ctx, []byte(msg))
				require.NoError(t, err)
				assert.Equal(t, 2, strings.Count(blob, BlobDelimiter))

				got, err := s.DecryptString(ctx, blob)
				require.NoError(t, err)
				assert.Equal(t, msg, string(got))
			}
		})
	}
}

func TestStringCodec_HexShape(t *testing.T) {
	s := newTestSession(t, testConfig(models.EncodingHex), "correct horse")
	blob, err := s.EncryptString(context.Background(), []byte("hunter2"))
	require.NoError(t, err)

	parts := strings.Split(blob, BlobDelimiter)
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], 32)  // one padded block
	assert.Len(t, parts[1], 32)  // 16-byte iv
	assert.Len(t, parts[2], 128) // sha512
}

func TestStringCodec_FreshIVPerCall(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, testConfig(models.EncodingHex), "correct horse")

	b1, err := s.EncryptString(ctx, []byte("hunter2"))
	require.NoError(t, err)
	b2, err := s.EncryptString(ctx, []byte("hunter2"))
	require.NoError(t, err)

	assert.NotEqual(t, b1, b2)
	assert.NotEqual(t, strings.Split(b1, BlobDelimiter)[1], strings.Split(b2, BlobDelimiter)[1])
}

func TestStringCodec_TamperDetected(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	s, err := Unlock(ctx, UnlockParams{
		Passphrase: []byte("correct horse"),
		Config:     testConfig(models.EncodingHex),
		Salt:       testSaltRecord(),
		Source:     entropy.NewStaticSource([]byte("pepper")),
		Metrics:    m,
	})
	require.NoError(t, err)
	defer s.Lock()

	blob, err := s.EncryptString(ctx, []byte("hunter2"))
	require.NoError(t, err)

	tagField := strings.Split(blob, BlobDelimiter)[2]
	swapped := "0"
	if tagField[len(tagField)-1] == '0' {
		swapped = "1"
	}

	tests := map[string]string{
		"ciphertext bit": flipField(t, blob, 0, models.EncodingHex),
		"iv bit":         flipField(t, blob, 1, models.EncodingHex),
		"tag bit":        flipField(t, blob, 2, models.EncodingHex),
		"tag char":       blob[:len(blob)-1] + swapped,
		"tag truncated":  blob[:len(blob)-2],
		"tag uppercased": strings.Join(append(strings.Split(blob, BlobDelimiter)[:2], strings.ToUpper(tagField)), BlobDelimiter),
	}

	for name, mutated := range tests {
		t.Run(name, func(t *testing.T) {
			if mutated == blob {
				t.Skip("mutation produced the original blob")
			}
			_, err := s.DecryptString(ctx, mutated)
			assert.ErrorIs(t, err, ErrTamperDetected)
		})
	}

	assert.GreaterOrEqual(t, testutil.ToFloat64(m.TamperDetected), 5.0)
}

func TestStringCodec_ShiftedDelimiterIsTamper(t *testing.T) {
	ctx := context.Background()
	for _, enc := range []models.Encoding{models.EncodingHex, models.EncodingBase64} {
		t.Run(string(enc), func(t *testing.T) {
			s := newTestSession(t, testConfig(enc), "correct horse")
			blob, err := s.EncryptString(ctx, []byte("hunter2"))
			require.NoError(t, err)

			parts := strings.Split(blob, BlobDelimiter)
			ct, iv, tag := parts[0], parts[1], parts[2]

			// Both mutations keep ct||iv, and therefore the tag, unchanged.
			mutated := []string{
				strings.Join([]string{ct[:len(ct)-1], ct[len(ct)-1:] + iv, tag}, BlobDelimiter),
				strings.Join([]string{ct + iv[:1], iv[1:], tag}, BlobDelimiter),
			}
			for _, m := range mutated {
				_, err := s.DecryptString(ctx, m)
				assert.ErrorIs(t, err, ErrTamperDetected, m)
			}
		})
	}
}

func TestStringCodec_Malformed(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, testConfig(models.EncodingHex), "correct horse")

	for _, blob := range []string{"", "onlyone", "a$b", "a$b$c$d"} {
		t.Run(blob, func(t *testing.T) {
			_, err := s.DecryptString(ctx, blob)
			assert.ErrorIs(t, err, ErrMalformedBlob)
			assert.ErrorIs(t, err, ErrDecryptFailure)
			assert.NotErrorIs(t, err, ErrTamperDetected)
		})
	}
}

func TestStringCodec_WrongPassphrase(t *testing.T) {
	ctx := context.Background()
	right := newTestSession(t, testConfig(models.EncodingHex), "correct horse")
	wrong := newTestSession(t, testConfig(models.EncodingHex), "battery staple")

	// Both sessions share the HMAC secret, so the tag verifies and the
	// failure surfaces from the cipher.
	blob, err := right.EncryptString(ctx, []byte(strings.Repeat("secret", 10)))
	require.NoError(t, err)

	got, err := wrong.DecryptString(ctx, blob)
	if err == nil {
		assert.NotEqual(t, strings.Repeat("secret", 10), string(got))
		return
	}
	assert.ErrorIs(t, err, ErrDecryptFailure)
	assert.NotErrorIs(t, err, ErrTamperDetected)
}

func TestStringCodec_CanceledContext(t *testing.T) {
	s := newTestSession(t, testConfig(models.EncodingHex), "pw")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.EncryptString(ctx, []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.DecryptString(ctx, "a$b$c")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name     string
		expected []byte
		computed []byte
		want     bool
	}{
		{name: "equal", expected: []byte("abcdef"), computed: []byte("abcdef"), want: true},
		{name: "both empty", expected: nil, computed: []byte{}, want: true},
		{name: "differs at start", expected: []byte("xbcdef"), computed: []byte("abcdef")},
		{name: "differs at end", expected: []byte("abcdex"), computed: []byte("abcdef")},
		{name: "shorter", expected: []byte("abc"), computed: []byte("abcdef")},
		{name: "longer", expected: []byte("abcdefg"), computed: []byte("abcdef")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.expected, tt.computed))
		})
	}
}
