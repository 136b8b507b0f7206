// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cli implements the vaultctl command tree.
//
// [NewRootCommand] builds the cobra commands. Every command except version
// loads the configuration, opens the record store and runs the startup
// recovery sweep through an [App] before it executes; the App is closed
// after the command returns, which also flushes the metrics textfile.
//
// Commands that need the key read the passphrase from --passphrase-file,
// the VAULT_PASSPHRASE variable, a terminal prompt or the first line of
// stdin, in that order.
package cli
