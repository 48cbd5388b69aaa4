package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/synodic/release-repo/internal/service/status"
	"github.com/synodic/release-repo/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for displaying repository status.
	rootCmd = &cobra.Command{
		Use:   "synodic-status",
		Short: "Show trust repository health and known releases",
		Long: `Summarizes the repository without modifying it: per-role versions and
expiry countdowns, the number of published versions, the latest pointer
values, and the most recent versions. Missing pieces are shown as absent
rather than raised as errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			summary, err := status.Run(ctx, &status.Options{ConfigPath: configPath})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), summary.Render())

			return nil
		},
	}
)

// Execute runs the synodic-status CLI and exits with non-zero status on error.
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
