package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/synodic/release-repo/internal/service/verifier"
	"github.com/synodic/release-repo/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// errVerificationFailed signals a FAIL outcome to the process exit code.
	errVerificationFailed = errors.New("verification failed")

	// rootCmd represents the base command for auditing the repository.
	rootCmd = &cobra.Command{
		Use:   "synodic-verifier",
		Short: "Audit the trust repository for consistency violations",
		Long: `Loads the four trust documents and the targets tree and checks every
structural invariant between them: role declarations, key resolution,
snapshot and timestamp references, and registry-versus-filesystem drift.

Errors fail the audit; warnings are surfaced but do not.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			report, err := verifier.Run(ctx, &verifier.Options{ConfigPath: configPath})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			for _, message := range report.Errors {
				_, _ = fmt.Fprintln(out, "error:", message)
			}

			for _, message := range report.Warnings {
				_, _ = fmt.Fprintln(out, "warning:", message)
			}

			if !report.Passed() {
				_, _ = fmt.Fprintf(out, "FAIL: %d error(s), %d warning(s)\n",
					len(report.Errors), len(report.Warnings))

				return errVerificationFailed
			}

			_, _ = fmt.Fprintf(out, "PASS: %d warning(s)\n", len(report.Warnings))

			return nil
		},
	}
)

// Execute runs the synodic-verifier CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file (optional)")
}
