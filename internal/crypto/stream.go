// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"
)

const streamChunk = 32 * 1024

var errWriterClosed = errors.New("cipher writer already closed")

// cbcWriter encrypts full blocks as they arrive and holds back the tail,
// which is padded on Close.
type cbcWriter struct {
	dst    io.Writer
	mode   cipher.BlockMode
	tail   []byte
	closed bool
}

func (w *cbcWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errWriterClosed
	}

	buf := append(w.tail, p...)
	n := len(buf) - len(buf)%aes.BlockSize
	if n > 0 {
		out := make([]byte, n)
		w.mode.CryptBlocks(out, buf[:n])
		if _, err := w.dst.Write(out); err != nil {
			return 0, err
		}
	}
	w.tail = append([]byte(nil), buf[n:]...)

	return len(p), nil
}

func (w *cbcWriter) Close() error {
	if w.closed {
		return errWriterClosed
	}
	w.closed = true

	padded := pkcs7Pad(w.tail)
	out := make([]byte, len(padded))
	w.mode.CryptBlocks(out, padded)
	w.tail = nil

	_, err := w.dst.Write(out)
	return err
}

// cbcReader decrypts src, always holding back the last full block until EOF
// so the padding can be stripped.
type cbcReader struct {
	src  io.Reader
	mode cipher.BlockMode
	in   []byte
	out  []byte
	done bool
	err  error
}

func (r *cbcReader) Read(p []byte) (int, error) {
	for len(r.out) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		if r.done {
			return 0, io.EOF
		}
		r.fill()
	}

	n := copy(p, r.out)
	r.out = r.out[n:]
	return n, nil
}

func (r *cbcReader) fill() {
	chunk := make([]byte, streamChunk)
	n, err := r.src.Read(chunk)
	r.in = append(r.in, chunk[:n]...)

	switch {
	case errors.Is(err, io.EOF):
		r.finish()
	case err != nil:
		r.err = err
	default:
		ready := len(r.in) - len(r.in)%aes.BlockSize
		if ready == len(r.in) {
			ready -= aes.BlockSize
		}
		if ready <= 0 {
			return
		}
		r.out = make([]byte, ready)
		r.mode.CryptBlocks(r.out, r.in[:ready])
		r.in = append([]byte(nil), r.in[ready:]...)
	}
}

func (r *cbcReader) finish() {
	r.done = true

	if len(r.in) == 0 || len(r.in)%aes.BlockSize != 0 {
		r.err = fmt.Errorf("%w: ciphertext stream ends mid-block", ErrDecryptFailure)
		return
	}

	plain := make([]byte, len(r.in))
	r.mode.CryptBlocks(plain, r.in)
	r.in = nil

	out, err := pkcs7Unpad(plain)
	if err != nil {
		r.err = fmt.Errorf("%w: %w", ErrDecryptFailure, err)
		return
	}
	r.out = out
}
