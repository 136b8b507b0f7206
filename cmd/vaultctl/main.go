// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command vaultctl encrypts strings and folders with a passphrase bound to
// the local machine.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-vault-core/internal/cli"
	"github.com/MKhiriev/go-vault-core/internal/service"
	"github.com/MKhiriev/go-vault-core/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	cmd := cli.NewRootCommand(build, cli.Options{})
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}

	stop()
	os.Exit(service.ExitCode(err))
}

