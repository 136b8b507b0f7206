// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-vault-core/internal/logger"
)

var errPathTraversal = errors.New("archive entry escapes target directory")

// writeTar archives the given top-level entries of dir into w. Entry names
// are slash-separated paths relative to dir. Regular files, directories and
// symlinks are archived; other file types are skipped with a warning.
func writeTar(w io.Writer, dir string, entries []string, log *logger.Logger) error {
	tw := tar.NewWriter(w)

	for _, entry := range entries {
		root := filepath.Join(dir, entry)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			return addTarEntry(tw, dir, path, d, log)
		})
		if err != nil {
			return fmt.Errorf("archive %s: %w", entry, err)
		}
	}

	return tw.Close()
}

func addTarEntry(tw *tar.Writer, dir, path string, d fs.DirEntry, log *logger.Logger) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	var link string
	switch {
	case info.Mode().IsRegular(), info.IsDir():
	case info.Mode()&fs.ModeSymlink != 0:
		if link, err = os.Readlink(path); err != nil {
			return err
		}
	default:
		log.Warn().Str("path", path).Str("mode", info.Mode().String()).Msg("skipping unsupported file type")
		return nil
	}

	header, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return fmt.Errorf("creating tar header: %w", err)
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return fmt.Errorf("getting relative path: %w", err)
	}
	header.Name = filepath.ToSlash(rel)
	if info.IsDir() {
		header.Name += "/"
	}

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("writing tar header: %w", err)
	}

	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("writing file contents: %w", err)
	}
	return nil
}

// extractTar unpacks r into dir, overwriting existing files. Entries that
// would land outside dir are rejected.
func extractTar(r io.Reader, dir string) error {
	return walkTar(r, dir, extractEntry)
}

// checkTar reads r to the end without writing anything. It fails on the
// same archives extractTar would reject while parsing.
func checkTar(r io.Reader, dir string) error {
	return walkTar(r, dir, func(tr *tar.Reader, _ string, header *tar.Header) error {
		if header.Typeflag != tar.TypeReg {
			return nil
		}
		if _, err := io.Copy(io.Discard, tr); err != nil {
			return fmt.Errorf("reading %s: %w", header.Name, err)
		}
		return nil
	})
}

func walkTar(r io.Reader, dir string, visit func(tr *tar.Reader, target string, header *tar.Header) error) error {
	tr := tar.NewReader(r)
	cleanDir := filepath.Clean(dir)

	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar header: %w", err)
		}

		target := filepath.Join(cleanDir, filepath.FromSlash(header.Name))
		if !strings.HasPrefix(target, cleanDir+string(os.PathSeparator)) {
			return fmt.Errorf("%w: %s", errPathTraversal, header.Name)
		}

		if err := visit(tr, target, header); err != nil {
			return err
		}
	}
}

func extractEntry(tr *tar.Reader, target string, header *tar.Header) error {
	switch header.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, fileMode(header.Mode)|0o700)
	case tar.TypeReg:
		if err := extractFile(tr, target, header); err != nil {
			return fmt.Errorf("extract %s: %w", header.Name, err)
		}
	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := removeExisting(target); err != nil {
			return err
		}
		return os.Symlink(header.Linkname, target)
	}
	return nil
}

// removeExisting deletes a file or symlink left at target by an earlier
// extraction, so a read-only file does not block a rerun.
func removeExisting(target string) error {
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func extractFile(tr *tar.Reader, target string, header *tar.Header) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	if err := removeExisting(target); err != nil {
		return fmt.Errorf("replacing file: %w", err)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, fileMode(header.Mode))
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if _, err := io.Copy(out, tr); err != nil {
		out.Close()
		return fmt.Errorf("writing file contents: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(target, header.AccessTime, header.ModTime)
}

// fileMode keeps only permission bits, defaulting to 0600.
func fileMode(mode int64) os.FileMode {
	if mode <= 0 {
		return 0o600
	}
	return os.FileMode(mode) & os.ModePerm
}
