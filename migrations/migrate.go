// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations embeds the record-store schema and applies it with
// goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var schema embed.FS

// ErrNilDB is returned when no connection is supplied.
var ErrNilDB = errors.New("migrations: db is nil")

// Applied describes one migration run by [Up].
type Applied struct {
	Version int64
	Source  string
}

func newProvider(db *sql.DB) (*goose.Provider, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, db, schema)
	if err != nil {
		return nil, fmt.Errorf("migrations: load schema: %w", err)
	}
	return p, nil
}

// Up applies every pending migration to db and reports those it ran. An
// up-to-date database yields an empty slice.
func Up(ctx context.Context, db *sql.DB) ([]Applied, error) {
	p, err := newProvider(db)
	if err != nil {
		return nil, err
	}

	results, err := p.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrations: apply: %w", err)
	}

	applied := make([]Applied, 0, len(results))
	for _, r := range results {
		applied = append(applied, Applied{Version: r.Source.Version, Source: r.Source.Path})
	}
	return applied, nil
}

// Version returns the schema version recorded in db.
func Version(ctx context.Context, db *sql.DB) (int64, error) {
	p, err := newProvider(db)
	if err != nil {
		return 0, err
	}
	v, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrations: read version: %w", err)
	}
	return v, nil
}
