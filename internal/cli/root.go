// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-vault-core/internal/config"
	"github.com/MKhiriev/go-vault-core/internal/crypto"
	"github.com/MKhiriev/go-vault-core/internal/logger"
	"github.com/MKhiriev/go-vault-core/models"
)

// annotation marking commands that run without an App.
const annotationNoApp = "vaultctl/no-app"

// Options tweak [NewRootCommand]. The zero value is the production setup.
type Options struct {
	// Logger replaces the file logger built from the configuration.
	Logger *logger.Logger
	// LookupEnv replaces os.LookupEnv for the passphrase variable.
	LookupEnv func(string) (string, bool)
}

// root carries state shared by every command of one invocation.
type root struct {
	opts  Options
	build models.AppBuildInfo

	flags          *config.Flags
	passphraseFile string
	app            *App
	stdin          *bufio.Reader
}

// NewRootCommand builds the vaultctl command tree.
func NewRootCommand(build models.AppBuildInfo, opts Options) *cobra.Command {
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	r := &root{opts: opts, build: build}

	cmd := &cobra.Command{
		Use:   "vaultctl",
		Short: "Encrypt strings and folders with a passphrase bound to this machine",
		Long: `vaultctl derives a key from your passphrase and this machine's identity,
then encrypts short strings into tamper-evident blobs and whole folders
into an encrypted archive kept in place.

Run 'vaultctl init' once to create the vault records.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.setup,
	}

	r.flags = config.BindFlags(cmd.PersistentFlags())
	cmd.PersistentFlags().StringVar(&r.passphraseFile, "passphrase-file", "", "Read the passphrase from this file")

	cmd.AddCommand(
		r.initCmd(),
		r.encryptStringCmd(),
		r.decryptStringCmd(),
		r.encryptFolderCmd(),
		r.decryptFolderCmd(),
		r.statusCmd(),
		r.recoverCmd(),
		r.versionCmd(),
	)

	return cmd
}

func (r *root) setup(cmd *cobra.Command, args []string) error {
	r.stdin = bufio.NewReader(cmd.InOrStdin())
	if cmd.Annotations[annotationNoApp] == "true" {
		return nil
	}

	cfg, err := config.Load(r.flags.Config())
	if err != nil {
		return fmt.Errorf("%w: %w", crypto.ErrConfiguration, err)
	}

	app, err := NewApp(cmd.Context(), cfg, r.opts.Logger)
	if err != nil {
		return err
	}
	r.app = app
	cmd.SetContext(app.log.WithContext(cmd.Context()))
	app.log.Debug().Stringer("build", r.build).Str("command", cmd.Name()).Msg("command started")

	if err := app.Startup(cmd.Context()); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), warningLine("startup recovery: "+err.Error()))
	}
	return nil
}

// withApp wraps a command body so the App is closed even when it fails.
// cobra skips post-run hooks after an error.
func (r *root) withApp(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if r.app != nil {
				err = errors.Join(err, r.app.Close())
				r.app = nil
			}
		}()
		return fn(cmd, args)
	}
}

func (r *root) passphrase(cmd *cobra.Command) ([]byte, error) {
	var tty *os.File
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		tty = f
	}
	return passphraseReader{
		file:   r.passphraseFile,
		lookup: r.opts.LookupEnv,
		stdin:  r.stdin,
		tty:    tty,
		prompt: cmd.ErrOrStderr(),
	}.read()
}

// unlock reads the passphrase and derives the session key behind a spinner.
// The caller must Lock the session.
func (r *root) unlock(cmd *cobra.Command) (*crypto.Session, error) {
	pass, err := r.passphrase(cmd)
	if err != nil {
		return nil, err
	}
	defer clear(pass)

	stop := startSpinner(cmd.ErrOrStderr(), "Deriving key...")
	session, err := r.app.Vault().Unlock(cmd.Context(), pass)
	stop()
	return session, err
}
