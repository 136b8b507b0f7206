// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-core/internal/crypto"
	"github.com/MKhiriev/go-vault-core/internal/logger"
	"github.com/MKhiriev/go-vault-core/internal/metrics"
)

// RecoveryWorker runs folder recovery on a fixed list of folders. Folders
// already at rest are left untouched.
type RecoveryWorker struct {
	folders []string
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewRecoveryWorker returns a worker for folders. log and m may be nil.
func NewRecoveryWorker(folders []string, log *logger.Logger, m *metrics.Metrics) *RecoveryWorker {
	if log == nil {
		log = logger.Nop()
	}
	return &RecoveryWorker{folders: folders, log: log, metrics: m}
}

// Run recovers every folder and returns the failures joined. A folder that
// cannot be recovered does not stop the others.
func (r *RecoveryWorker) Run(ctx context.Context) error {
	var errs []error
	for _, dir := range r.folders {
		action, err := crypto.RecoverFolder(ctx, dir, r.log, r.metrics)
		if err != nil {
			r.log.Err(err).Str("func", "RecoveryWorker.Run").Str("dir", dir).Msg("recovery failed")
			errs = append(errs, fmt.Errorf("recover %s: %w", dir, err))
			continue
		}
		r.log.Debug().Str("func", "RecoveryWorker.Run").Str("dir", dir).Stringer("action", action).Msg("folder checked")
	}
	return errors.Join(errs...)
}
