// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-vault-core/internal/crypto"
	"github.com/MKhiriev/go-vault-core/internal/service"
)

func (r *root) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the vault records (salt, HMAC secret and key parameters)",
		Args:  cobra.NoArgs,
		RunE: r.withApp(func(cmd *cobra.Command, args []string) error {
			enc := r.app.cfg.Encryption.Model()
			err := r.app.Vault().Initialize(cmd.Context(), enc)
			if errors.Is(err, service.ErrVaultExists) {
				fmt.Fprintln(cmd.ErrOrStderr(), failureLine("A vault already exists in "+pathStyle.Sprint(r.app.cfg.Storage.DSN)))
				return err
			}
			if err != nil {
				return err
			}

			enc = enc.WithDefaults()
			fmt.Fprintln(cmd.OutOrStdout(), successLine("Vault initialized in "+pathStyle.Sprint(r.app.cfg.Storage.DSN)))
			fmt.Fprintf(cmd.OutOrStdout(), "  Key:        %s bits\n", highlight.Sprint(enc.Bits))
			fmt.Fprintf(cmd.OutOrStdout(), "  Iterations: %s\n", highlight.Sprint(enc.Iterations))
			fmt.Fprintf(cmd.OutOrStdout(), "  Encoding:   %s\n", highlight.Sprint(enc.Encoding))
			return nil
		}),
	}
}

func (r *root) encryptStringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt-string <plaintext|->",
		Short: "Encrypt a string into a ct$iv$tag blob",
		Long: `Encrypt a string into a ct$iv$tag blob. Pass "-" to read the plaintext
from stdin; when the passphrase also comes from stdin it is the first line.`,
		Args: cobra.ExactArgs(1),
		RunE: r.withApp(func(cmd *cobra.Command, args []string) error {
			session, err := r.unlock(cmd)
			if err != nil {
				return err
			}
			defer session.Lock()

			plaintext := []byte(args[0])
			if args[0] == "-" {
				if plaintext, err = io.ReadAll(r.stdin); err != nil {
					return fmt.Errorf("read plaintext: %w", err)
				}
			}

			blob, err := r.app.Vault().EncryptString(cmd.Context(), session, plaintext)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), blob)
			return nil
		}),
	}
}

func (r *root) decryptStringCmd() *cobra.Command {
	var toClipboard bool

	cmd := &cobra.Command{
		Use:   "decrypt-string <blob>",
		Short: "Verify and decrypt a ct$iv$tag blob",
		Args:  cobra.ExactArgs(1),
		RunE: r.withApp(func(cmd *cobra.Command, args []string) error {
			session, err := r.unlock(cmd)
			if err != nil {
				return err
			}
			defer session.Lock()

			plaintext, err := r.app.Vault().DecryptString(cmd.Context(), session, args[0])
			if errors.Is(err, crypto.ErrTamperDetected) {
				fmt.Fprintln(cmd.ErrOrStderr(), failureLine("The blob was modified: integrity check failed"))
				return err
			}
			if err != nil {
				return err
			}
			defer clear(plaintext)

			if toClipboard {
				if err := clipboard.WriteAll(string(plaintext)); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), successLine("Copied to clipboard"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(plaintext))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&toClipboard, "clipboard", false, "Copy the plaintext to the clipboard instead of printing it")

	return cmd
}

func (r *root) encryptFolderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt-folder <dir>",
		Short: "Archive and encrypt a folder in place",
		Args:  cobra.ExactArgs(1),
		RunE: r.withApp(func(cmd *cobra.Command, args []string) error {
			return r.folderOp(cmd, args[0], "Encrypting", "encrypted", r.app.Vault().EncryptFolder)
		}),
	}
}

func (r *root) decryptFolderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt-folder <dir>",
		Short: "Decrypt and restore a folder encrypted by encrypt-folder",
		Args:  cobra.ExactArgs(1),
		RunE: r.withApp(func(cmd *cobra.Command, args []string) error {
			return r.folderOp(cmd, args[0], "Decrypting", "decrypted", r.app.Vault().DecryptFolder)
		}),
	}
}

type folderFunc func(ctx context.Context, session *crypto.Session, dir string) error

func (r *root) folderOp(cmd *cobra.Command, dir, verb, done string, op folderFunc) error {
	session, err := r.unlock(cmd)
	if err != nil {
		return err
	}
	defer session.Lock()

	stop := startSpinner(cmd.ErrOrStderr(), verb+" "+dir+"...")
	err = op(cmd.Context(), session, dir)
	stop()

	if errors.Is(err, crypto.ErrStateConflict) {
		fmt.Fprintln(cmd.ErrOrStderr(), failureLine(err.Error()))
		fmt.Fprintln(cmd.ErrOrStderr(), hintLine("Check "+highlight.Sprint("vaultctl status "+dir)))
		return err
	}
	if errors.Is(err, crypto.ErrDecryptFailure) {
		fmt.Fprintln(cmd.ErrOrStderr(), failureLine("Could not decrypt "+pathStyle.Sprint(dir)+": wrong passphrase or corrupted archive"))
		return err
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), hintLine("Run "+highlight.Sprint("vaultctl recover "+dir)+" before retrying"))
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), successLine(pathStyle.Sprint(dir)+" "+done))
	return nil
}

func (r *root) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <dir>",
		Short: "Report whether a folder is plain, encrypted or mid-operation",
		Args:  cobra.ExactArgs(1),
		RunE: r.withApp(func(cmd *cobra.Command, args []string) error {
			st, err := r.app.Vault().FolderState(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			line := pathStyle.Sprint(args[0]) + ": " + highlight.Sprint(st.String())
			if st == crypto.StateTransient {
				fmt.Fprintln(cmd.OutOrStdout(), warningLine(line))
				fmt.Fprintln(cmd.OutOrStdout(), hintLine("Run "+highlight.Sprint("vaultctl recover "+args[0])))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), successLine(line))
			return nil
		}),
	}
}

func (r *root) recoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recover <dir>...",
		Short: "Finish or roll back interrupted folder operations",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.withApp(func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, dir := range args {
				action, err := r.app.Vault().RecoverFolder(cmd.Context(), dir)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), failureLine(pathStyle.Sprint(dir)+": "+err.Error()))
					errs = append(errs, err)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), successLine(pathStyle.Sprint(dir)+": "+highlight.Sprint(action.String())))
			}
			return errors.Join(errs...)
		}),
	}
}

func (r *root) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoApp: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Build version: %s\n", r.build.BuildVersion())
			fmt.Fprintf(cmd.OutOrStdout(), "Build date: %s\n", r.build.BuildDate())
			fmt.Fprintf(cmd.OutOrStdout(), "Build commit: %s\n", r.build.BuildCommit())
		},
	}
}
