// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// On-disk artifact names inside an archive-codec folder. These names are
// reserved: they are never archived and never treated as user data.
const (
	IVFile        = "iv"
	TarFile       = "tar"
	EncryptedFile = "encrypted"
	DecryptedFile = "decrypted"

	// PartSuffix marks a stage output that has not been completely written.
	PartSuffix = ".part"
)

var reservedNames = map[string]struct{}{
	IVFile:                     {},
	TarFile:                    {},
	EncryptedFile:              {},
	DecryptedFile:              {},
	IVFile + PartSuffix:        {},
	TarFile + PartSuffix:       {},
	EncryptedFile + PartSuffix: {},
	DecryptedFile + PartSuffix: {},
}

// IsReserved reports whether name is an archive-codec artifact name.
func IsReserved(name string) bool {
	_, ok := reservedNames[name]
	return ok
}

// FolderState is the resting (or not) shape of an archive-codec folder.
type FolderState int

const (
	// StatePlain: user files only, no artifacts.
	StatePlain FolderState = iota
	// StateEncrypted: exactly the iv and encrypted artifacts.
	StateEncrypted
	// StateTransient: an interrupted operation left intermediate artifacts.
	StateTransient
)

func (s FolderState) String() string {
	switch s {
	case StatePlain:
		return "plain"
	case StateEncrypted:
		return "encrypted"
	case StateTransient:
		return "transient"
	}
	return "unknown"
}

// folderLayout records which artifacts exist in a folder.
type folderLayout struct {
	iv, tar, encrypted, decrypted bool
	parts                         []string
	userEntries                   []string
}

func (l folderLayout) state() FolderState {
	switch {
	case len(l.parts) > 0 || l.tar || l.decrypted:
		return StateTransient
	case l.iv && l.encrypted:
		return StateEncrypted
	case l.iv || l.encrypted:
		return StateTransient
	}
	return StatePlain
}

// scanFolder lists dir once and classifies its top-level entries.
func scanFolder(dir string) (folderLayout, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return folderLayout{}, ioError("scan", dir, err)
	}

	var l folderLayout
	for _, e := range entries {
		name := e.Name()
		switch name {
		case IVFile:
			l.iv = true
		case TarFile:
			l.tar = true
		case EncryptedFile:
			l.encrypted = true
		case DecryptedFile:
			l.decrypted = true
		case IVFile + PartSuffix, TarFile + PartSuffix, EncryptedFile + PartSuffix, DecryptedFile + PartSuffix:
			l.parts = append(l.parts, name)
		default:
			l.userEntries = append(l.userEntries, name)
		}
	}
	return l, nil
}

// InspectFolder reports the current state of dir without modifying it.
func InspectFolder(dir string) (FolderState, error) {
	l, err := scanFolder(dir)
	if err != nil {
		return StateTransient, err
	}
	return l.state(), nil
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func artifact(dir, name string) string {
	return filepath.Join(dir, name)
}
