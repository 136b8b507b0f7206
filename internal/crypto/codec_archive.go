// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MKhiriev/go-vault-core/internal/logger"
	"github.com/MKhiriev/go-vault-core/internal/metrics"
)

// ArchiveCodec encrypts a directory in place into two artifacts, iv and
// encrypted, and restores it. Each step is a separate stage function; every
// stage output is written to a ".part" file, synced and renamed, so a crash
// leaves either a complete artifact or a ".part" file that [RecoverFolder]
// discards.
//
// The context is checked once before an operation starts; a started
// operation runs to completion or failure. An ArchiveCodec must not be used
// concurrently on the same directory.
type ArchiveCodec struct {
	dir     string
	session *Session
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewArchiveCodec returns a codec for dir keyed by session.
func NewArchiveCodec(dir string, session *Session) *ArchiveCodec {
	return &ArchiveCodec{
		dir:     dir,
		session: session,
		log:     session.Logger(),
		metrics: session.Metrics(),
	}
}

// Dir returns the directory the codec operates on.
func (a *ArchiveCodec) Dir() string {
	return a.dir
}

// State reports the current folder state.
func (a *ArchiveCodec) State() (FolderState, error) {
	return InspectFolder(a.dir)
}

// Recover brings an interrupted folder back to a resting state.
func (a *ArchiveCodec) Recover(ctx context.Context) (RecoveryAction, error) {
	return RecoverFolder(ctx, a.dir, a.log, a.metrics)
}

// EncryptFolder archives every non-reserved top-level entry, encrypts the
// archive and removes the plaintext. Stages run strictly in order:
//
//  1. write iv
//  2. build tar
//  3. encrypt tar into encrypted
//  4. remove the archived user entries, then tar
//
// A folder that already holds iv is rejected with [ErrStateConflict].
func (a *ArchiveCodec) EncryptFolder(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { a.metrics.Observe(metrics.OpEncryptFolder, err) }()

	log := a.log.With().Str("func", "ArchiveCodec.EncryptFolder").Str("dir", a.dir).Logger()

	if err = ctx.Err(); err != nil {
		return err
	}
	layout, err := a.guardEncrypt()
	if err != nil {
		return err
	}

	cc, err := a.session.NewCipherContext(nil)
	if err != nil {
		return err
	}

	if err = a.stageWriteIV(cc.IV); err != nil {
		return err
	}
	log.Debug().Msg("iv written")

	if err = a.stageBuildTar(layout.userEntries); err != nil {
		return err
	}
	log.Debug().Int("entries", len(layout.userEntries)).Msg("tar built")

	n, err := a.stageEncryptTar(cc)
	if err != nil {
		return err
	}
	a.metrics.ArchiveBytes.WithLabelValues("encrypt").Add(float64(n))
	log.Debug().Int64("bytes", n).Msg("archive encrypted")

	if err = a.stageRemovePlaintext(layout.userEntries); err != nil {
		return err
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("folder encrypted")
	return nil
}

// DecryptFolder reverses [ArchiveCodec.EncryptFolder]. Stages:
//
//  1. read iv
//  2. decrypt encrypted into decrypted
//  3. check that decrypted parses as an archive
//  4. extract decrypted into the folder
//  5. remove encrypted, iv, then decrypted
//
// A folder without iv is rejected with [ErrStateConflict]. A wrong key
// surfaces as [ErrDecryptFailure] from stage 2 or 3; the folder is then put
// back to its encrypted state.
func (a *ArchiveCodec) DecryptFolder(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { a.metrics.Observe(metrics.OpDecryptFolder, err) }()

	log := a.log.With().Str("func", "ArchiveCodec.DecryptFolder").Str("dir", a.dir).Logger()

	if err = ctx.Err(); err != nil {
		return err
	}
	if err = a.guardDecrypt(); err != nil {
		return err
	}

	iv, err := a.stageReadIV()
	if err != nil {
		return err
	}

	cc, err := a.session.NewCipherContext(iv)
	if err != nil {
		return err
	}

	n, err := a.stageDecryptArchive(cc)
	if err != nil {
		log.Warn().Err(err).Msg("archive decrypt failed")
		return a.discardDecrypted(err)
	}
	a.metrics.ArchiveBytes.WithLabelValues("decrypt").Add(float64(n))
	log.Debug().Int64("bytes", n).Msg("archive decrypted")

	if err = checkStage(a.dir); err != nil {
		log.Warn().Err(err).Msg("decrypted archive rejected")
		return a.discardDecrypted(err)
	}

	if err = extractStage(a.dir); err != nil {
		return err
	}

	if err = finishDecrypt(a.dir); err != nil {
		return err
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("folder decrypted")
	return nil
}

func (a *ArchiveCodec) guardEncrypt() (folderLayout, error) {
	layout, err := scanFolder(a.dir)
	if err != nil {
		return layout, err
	}
	if layout.iv {
		return layout, fmt.Errorf("%w: %s is already encrypted", ErrStateConflict, a.dir)
	}
	if layout.state() != StatePlain {
		return layout, fmt.Errorf("%w: %s holds leftovers of an interrupted operation, run recover first",
			ErrStateConflict, a.dir)
	}
	return layout, nil
}

func (a *ArchiveCodec) guardDecrypt() error {
	layout, err := scanFolder(a.dir)
	if err != nil {
		return err
	}
	if !layout.iv {
		return fmt.Errorf("%w: %s is not encrypted", ErrStateConflict, a.dir)
	}
	if layout.state() != StateEncrypted {
		return fmt.Errorf("%w: %s holds leftovers of an interrupted operation, run recover first",
			ErrStateConflict, a.dir)
	}
	return nil
}

func (a *ArchiveCodec) stageWriteIV(iv []byte) error {
	path := artifact(a.dir, IVFile)
	return writeStage(path, func(w io.Writer) error {
		_, err := w.Write(iv)
		return err
	})
}

func (a *ArchiveCodec) stageReadIV() ([]byte, error) {
	path := artifact(a.dir, IVFile)
	iv, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("read iv", path, err)
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: iv file holds %d bytes, want %d", ErrDecryptFailure, len(iv), IVSize)
	}
	return iv, nil
}

func (a *ArchiveCodec) stageBuildTar(entries []string) error {
	return writeStage(artifact(a.dir, TarFile), func(w io.Writer) error {
		return writeTar(w, a.dir, entries, a.log)
	})
}

func (a *ArchiveCodec) stageEncryptTar(cc *CipherContext) (int64, error) {
	src := artifact(a.dir, TarFile)
	in, err := os.Open(src)
	if err != nil {
		return 0, ioError("open tar", src, err)
	}
	defer in.Close()

	var n int64
	err = writeStage(artifact(a.dir, EncryptedFile), func(w io.Writer) error {
		ew, err := cc.EncryptWriter(w)
		if err != nil {
			return err
		}
		if n, err = io.Copy(ew, in); err != nil {
			return err
		}
		return ew.Close()
	})
	return n, err
}

func (a *ArchiveCodec) stageRemovePlaintext(entries []string) error {
	return removePlaintext(a.dir, entries)
}

func (a *ArchiveCodec) stageDecryptArchive(cc *CipherContext) (int64, error) {
	src := artifact(a.dir, EncryptedFile)
	in, err := os.Open(src)
	if err != nil {
		return 0, ioError("open encrypted", src, err)
	}
	defer in.Close()

	var n int64
	err = writeStage(artifact(a.dir, DecryptedFile), func(w io.Writer) error {
		var err error
		n, err = io.Copy(w, cc.DecryptReader(in))
		return err
	})
	return n, err
}

// discardDecrypted removes decrypted and its ".part" file after a
// decrypt failure, leaving only iv and encrypted. Other failures are
// returned unchanged and their artifacts stay for recovery.
func (a *ArchiveCodec) discardDecrypted(cause error) error {
	if !errors.Is(cause, ErrDecryptFailure) {
		return cause
	}
	for _, name := range []string{DecryptedFile + PartSuffix, DecryptedFile} {
		if err := removeArtifact(a.dir, name); err != nil {
			return errors.Join(cause, err)
		}
	}
	return cause
}

// removePlaintext deletes the archived user entries, then tar. tar goes last
// so its presence next to iv and encrypted marks an unfinished cleanup.
func removePlaintext(dir string, entries []string) error {
	for _, entry := range entries {
		path := artifact(dir, entry)
		if err := os.RemoveAll(path); err != nil {
			return ioError("remove plaintext", path, err)
		}
	}
	return removeArtifact(dir, TarFile)
}

// checkStage parses the decrypted archive without extracting it. An archive
// that does not parse came from a wrong key and yields [ErrDecryptFailure].
func checkStage(dir string) error {
	src := artifact(dir, DecryptedFile)
	in, err := os.Open(src)
	if err != nil {
		return ioError("open decrypted", src, err)
	}
	defer in.Close()

	if err := checkTar(in, dir); err != nil {
		return fmt.Errorf("%w: decrypted archive is unreadable: %w", ErrDecryptFailure, err)
	}
	return nil
}

// extractStage unpacks the decrypted archive over the folder.
func extractStage(dir string) error {
	src := artifact(dir, DecryptedFile)
	in, err := os.Open(src)
	if err != nil {
		return ioError("open decrypted", src, err)
	}
	defer in.Close()

	if err := extractTar(in, dir); err != nil {
		return ioError("extract", src, err)
	}
	return nil
}

// finishDecrypt removes the decryption artifacts. decrypted goes last: while
// it exists the folder can always be rolled forward.
func finishDecrypt(dir string) error {
	for _, name := range []string{EncryptedFile, IVFile, DecryptedFile} {
		if err := removeArtifact(dir, name); err != nil {
			return err
		}
	}
	return nil
}

func removeArtifact(dir, name string) error {
	path := artifact(dir, name)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return ioError("remove "+name, path, err)
	}
	return nil
}

// writeStage writes path through fill into path+".part", syncs it and
// renames it into place. On failure the ".part" file is left for recovery.
// Errors from fill that already carry a kind are returned unchanged;
// anything else is reported as [ErrIO].
func writeStage(path string, fill func(w io.Writer) error) error {
	part := path + PartSuffix
	f, err := os.OpenFile(part, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return ioError("create", part, err)
	}

	if err := fill(f); err != nil {
		f.Close()
		if errors.Is(err, ErrDecryptFailure) || errors.Is(err, ErrConfiguration) {
			return err
		}
		return ioError("write", part, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return ioError("sync", part, err)
	}
	if err := f.Close(); err != nil {
		return ioError("close", part, err)
	}
	if err := os.Rename(part, path); err != nil {
		return ioError("rename", part, err)
	}
	return nil
}
