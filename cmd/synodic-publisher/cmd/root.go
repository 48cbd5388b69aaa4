package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/synodic/release-repo/internal/service/publisher"
	"github.com/synodic/release-repo/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// windowsURL, linuxURL and macosURL locate the platform artifacts.
	windowsURL string
	linuxURL   string
	macosURL   string

	// rootCmd represents the base command for publishing a release.
	rootCmd = &cobra.Command{
		Use:   "synodic-publisher [version] [channel]",
		Short: "Publish a release into the trust repository",
		Long: `Downloads the three platform artifacts, digests them, writes the
version's release record and moves the latest pointers.

Channel must be "stable" or "development". Only stable releases move the
global latest.txt pointer. No record or pointer is written unless all three
artifacts download successfully.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &publisher.Options{
				ConfigPath: configPath,
				Version:    args[0],
				Channel:    args[1],
				WindowsURL: windowsURL,
				LinuxURL:   linuxURL,
				MacOSURL:   macosURL,
			}

			record, err := publisher.Run(ctx, options)
			if err != nil {
				return err
			}

			// Echo the persisted record for operator confirmation.
			contents, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(contents))

			return nil
		},
	}
)

// Execute runs the synodic-publisher CLI and exits with non-zero status on error.
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
	rootCmd.Flags().StringVar(&windowsURL, "windows-url", "", "Windows artifact URL")
	rootCmd.Flags().StringVar(&linuxURL, "linux-url", "", "Linux artifact URL")
	rootCmd.Flags().StringVar(&macosURL, "macos-url", "", "macOS artifact URL")

	_ = rootCmd.MarkFlagRequired("windows-url")
	_ = rootCmd.MarkFlagRequired("linux-url")
	_ = rootCmd.MarkFlagRequired("macos-url")
}
