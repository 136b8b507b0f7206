// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs startup maintenance jobs before the CLI command
// executes. The only job today brings interrupted folders back to a resting
// state.
package workers

import "context"

// Worker is a single maintenance job. Run blocks until the job is done.
type Worker interface {
	Run(ctx context.Context) error
}
