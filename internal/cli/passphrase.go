// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// PassphraseEnv names the variable consulted when no passphrase file is
// given.
const PassphraseEnv = "VAULT_PASSPHRASE"

var errNoPassphrase = errors.New("no passphrase: use --passphrase-file, " + PassphraseEnv + " or stdin")

// passphraseReader resolves the passphrase from its sources in order.
type passphraseReader struct {
	file   string
	lookup func(string) (string, bool)
	stdin  *bufio.Reader
	tty    *os.File
	prompt io.Writer
}

func (p passphraseReader) read() ([]byte, error) {
	if p.file != "" {
		b, err := os.ReadFile(p.file)
		if err != nil {
			return nil, fmt.Errorf("read passphrase file: %w", err)
		}
		return trimLine(b), nil
	}

	if v, ok := p.lookup(PassphraseEnv); ok && v != "" {
		return []byte(v), nil
	}

	if p.tty != nil && term.IsTerminal(int(p.tty.Fd())) {
		fmt.Fprint(p.prompt, "Passphrase: ")
		b, err := term.ReadPassword(int(p.tty.Fd()))
		fmt.Fprintln(p.prompt)
		if err != nil {
			return nil, fmt.Errorf("read passphrase: %w", err)
		}
		return b, nil
	}

	line, err := p.stdin.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	line = trimLine(line)
	if len(line) == 0 {
		return nil, errNoPassphrase
	}
	return line, nil
}

func trimLine(b []byte) []byte {
	return bytes.TrimRight(b, "\r\n")
}
