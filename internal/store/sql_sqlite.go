// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-vault-core/internal/config"
	"github.com/MKhiriev/go-vault-core/internal/logger"
)

// sqliteParams are appended to the database path. The busy timeout lets a
// second vaultctl wait for the first instead of failing with SQLITE_BUSY.
var sqliteParams = url.Values{
	"_busy_timeout": {"5000"},
	"_foreign_keys": {"on"},
	"_txlock":       {"immediate"},
}

// NewConnectSQLite opens the record-store database file, creating it with
// mode 0600 inside a 0700 directory when missing. The pool is capped at one
// connection.
func NewConnectSQLite(ctx context.Context, cfg config.Storage, log *logger.Logger) (*DB, error) {
	created, err := ensureDBFile(cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Str("dsn", cfg.DSN).Msg("cannot prepare database file")
		return nil, err
	}
	if !created {
		warnIfShared(cfg.DSN, log)
	}

	conn, err := sql.Open("sqlite3", "file:"+cfg.DSN+"?"+sqliteParams.Encode())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DSN, err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Str("dsn", cfg.DSN).Msg("database ping failed")
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.DSN, err)
	}

	log.Debug().Str("func", "NewConnectSQLite").Str("dsn", cfg.DSN).Bool("created", created).Msg("record store opened")
	return &DB{DB: conn, logger: log}, nil
}

// ensureDBFile creates path if it does not exist and reports whether it did.
func ensureDBFile(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, fmt.Errorf("create database directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return false, fmt.Errorf("create database file: %w", err)
	}
	return true, f.Close()
}

// warnIfShared logs when the database is readable by other users. The file
// holds the salt and HMAC secret.
func warnIfShared(path string, log *logger.Logger) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		log.Warn().
			Str("func", "NewConnectSQLite").
			Str("dsn", path).
			Str("mode", fmt.Sprintf("%04o", perm)).
			Msg("record store is accessible by other users, consider chmod 600")
	}
}
