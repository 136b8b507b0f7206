package crypto

import (
	"bytes"
	"crypto/aes"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-vault-core/models"
)

func TestPKCS7(t *testing.T) {
	for n := 0; n <= 2*aes.BlockSize; n++ {
		in := bytes.Repeat([]byte{'x'}, n)
		padded := pkcs7Pad(in)

		assert.Zero(t, len(padded)%aes.BlockSize)
		assert.Greater(t, len(padded), n)

		out, err := pkcs7Unpad(padded)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestPKCS7Unpad_Invalid(t *testing.T) {
	good := pkcs7Pad([]byte("abc"))
	badByte := append([]byte(nil), good...)
	badByte[len(badByte)-2] ^= 0xff
	zero := append([]byte(nil), good...)
	zero[len(zero)-1] = 0
	tooLarge := append([]byte(nil), good...)
	tooLarge[len(tooLarge)-1] = aes.BlockSize + 1

	for name, in := range map[string][]byte{
		"empty":       nil,
		"unaligned":   good[:len(good)-1],
		"bad byte":    badByte,
		"zero length": zero,
		"too large":   tooLarge,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := pkcs7Unpad(in)
			assert.ErrorIs(t, err, errBadPadding)
		})
	}
}

func TestCipherContext_RoundTrip(t *testing.T) {
	s := newTestSession(t, testConfig(models.EncodingHex), "pw")

	enc, err := s.NewCipherContext(nil)
	require.NoError(t, err)
	require.Len(t, enc.IV, IVSize)

	ct, err := enc.Encrypt([]byte("attack at dawn"))
	require.NoError(t, err)
	assert.Len(t, ct, aes.BlockSize)

	dec, err := s.NewCipherContext(enc.IV)
	require.NoError(t, err)
	pt, err := dec.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("attack at dawn"), pt)

	// A decrypt context may be reused.
	pt, err = dec.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("attack at dawn"), pt)
}

func TestCipherContext_FreshIVs(t *testing.T) {
	s := newTestSession(t, testConfig(models.EncodingHex), "pw")
	seen := map[string]bool{}
	for range 100 {
		cc, err := s.NewCipherContext(nil)
		require.NoError(t, err)
		assert.False(t, seen[string(cc.IV)])
		seen[string(cc.IV)] = true
	}
}

func TestCipherContext_EncryptOnce(t *testing.T) {
	s := newTestSession(t, testConfig(models.EncodingHex), "pw")
	cc, err := s.NewCipherContext(nil)
	require.NoError(t, err)

	_, err = cc.Encrypt([]byte("one"))
	require.NoError(t, err)

	_, err = cc.Encrypt([]byte("two"))
	assert.ErrorIs(t, err, ErrIVReused)

	_, err = cc.EncryptWriter(io.Discard)
	assert.ErrorIs(t, err, ErrIVReused)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestNewCipherContext_BadIV(t *testing.T) {
	s := newTestSession(t, testConfig(models.EncodingHex), "pw")
	_, err := s.NewCipherContext(make([]byte, 8))
	assert.ErrorIs(t, err, ErrDecryptFailure)
}

func TestCipherContext_DecryptErrors(t *testing.T) {
	s := newTestSession(t, testConfig(models.EncodingHex), "pw")
	cc, err := s.NewCipherContext(nil)
	require.NoError(t, err)

	for name, in := range map[string][]byte{
		"empty":     nil,
		"unaligned": make([]byte, aes.BlockSize+1),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := cc.Decrypt(in)
			assert.ErrorIs(t, err, ErrDecryptFailure)
		})
	}
}

func TestCipherContext_WrongKey(t *testing.T) {
	right := newTestSession(t, testConfig(models.EncodingHex), "right")
	wrong := newTestSession(t, testConfig(models.EncodingHex), "wrong")

	enc, err := right.NewCipherContext(nil)
	require.NoError(t, err)
	ct, err := enc.Encrypt(bytes.Repeat([]byte("payload "), 8))
	require.NoError(t, err)

	dec, err := wrong.NewCipherContext(enc.IV)
	require.NoError(t, err)
	pt, err := dec.Decrypt(ct)
	if err == nil {
		assert.NotEqual(t, bytes.Repeat([]byte("payload "), 8), pt)
		return
	}
	assert.ErrorIs(t, err, ErrDecryptFailure)
}

func TestCipherStream_MatchesOneShot(t *testing.T) {
	s := newTestSession(t, testConfig(models.EncodingHex), "pw")

	sizes := []int{0, 1, aes.BlockSize - 1, aes.BlockSize, aes.BlockSize + 1, streamChunk - 1, streamChunk, streamChunk + 7, 3*streamChunk + aes.BlockSize}
	for _, size := range sizes {
		plaintext := make([]byte, size)
		for i := range plaintext {
			plaintext[i] = byte(i * 7)
		}

		enc, err := s.NewCipherContext(nil)
		require.NoError(t, err)

		var buf bytes.Buffer
		w, err := enc.EncryptWriter(&buf)
		require.NoError(t, err)
		// Uneven writes exercise the held-back tail.
		for off := 0; off < len(plaintext); off += 13 {
			end := min(off+13, len(plaintext))
			_, err := w.Write(plaintext[off:end])
			require.NoError(t, err)
		}
		require.NoError(t, w.Close())
		assert.ErrorIs(t, w.Close(), errWriterClosed)

		oneShotCtx, err := s.NewCipherContext(enc.IV)
		require.NoError(t, err)
		oneShot, err := oneShotCtx.Decrypt(buf.Bytes())
		require.NoError(t, err, "size %d", size)
		assert.Equal(t, plaintext, oneShot, "size %d", size)

		dec, err := s.NewCipherContext(enc.IV)
		require.NoError(t, err)
		got, err := io.ReadAll(iotest.OneByteReader(dec.DecryptReader(bytes.NewReader(buf.Bytes()))))
		require.NoError(t, err, "size %d", size)
		assert.Equal(t, plaintext, got, "size %d", size)
	}
}

func TestCipherStream_Truncated(t *testing.T) {
	s := newTestSession(t, testConfig(models.EncodingHex), "pw")
	enc, err := s.NewCipherContext(nil)
	require.NoError(t, err)
	ct, err := enc.Encrypt(bytes.Repeat([]byte{1}, 100))
	require.NoError(t, err)

	dec, err := s.NewCipherContext(enc.IV)
	require.NoError(t, err)
	_, err = io.ReadAll(dec.DecryptReader(bytes.NewReader(ct[:len(ct)-3])))
	assert.ErrorIs(t, err, ErrDecryptFailure)

	_, err = io.ReadAll(dec.DecryptReader(bytes.NewReader(nil)))
	assert.ErrorIs(t, err, ErrDecryptFailure)
}

func TestCipherStream_SourceError(t *testing.T) {
	s := newTestSession(t, testConfig(models.EncodingHex), "pw")
	dec, err := s.NewCipherContext(make([]byte, IVSize))
	require.NoError(t, err)

	boom := errors.New("disk gone")
	_, err = io.ReadAll(dec.DecryptReader(iotest.ErrReader(boom)))
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrDecryptFailure))
}
