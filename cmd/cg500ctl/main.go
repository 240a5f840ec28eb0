package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rstltd/cg500-blueteeth-app/internal/buildinfo"
	"github.com/rstltd/cg500-blueteeth-app/internal/client"
	"github.com/rstltd/cg500-blueteeth-app/internal/logging"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var logger *logging.Logger

var serverURL string

func initLogger() {
	logConfig := &logging.Config{
		File:       "~/.cg500/cli.log",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
	}

	if err := logging.InitLogger(logConfig); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger = logging.GetGlobalLogger()
}

var rootCmd = &cobra.Command{
	Use:   "cg500ctl",
	Short: "CG500 update server CLI - query update status and fetch artifacts",
	Long: `cg500ctl talks to a running CG500 update server.
It can check whether an update is available for a given app version,
download APK artifacts, and inspect server statistics.`,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether an update is available",
	Long: `Ask the update server whether a newer build exists for the reported version.

Examples:
  cg500ctl check --current-version 1.0.3+4
  cg500ctl check --current-version 1.0.0 --platform android`,
	Run: func(cmd *cobra.Command, args []string) {
		currentVersion, _ := cmd.Flags().GetString("current-version")
		platform, _ := cmd.Flags().GetString("platform")

		c := client.New(serverURL)
		resp, err := c.CheckVersion(context.Background(), currentVersion, platform)
		if err != nil {
			logger.Error("Version check failed: %v", err)
			os.Exit(1)
		}

		if !resp.HasUpdate {
			logger.Info("No update available. Current: %s, Latest: %s", resp.CurrentVersion, resp.LatestVersion)
			return
		}

		logger.Info("Update available: %s -> %s", resp.CurrentVersion, resp.LatestVersion)
		logger.Info("  Artifact: %s (%d bytes)", resp.DownloadURL, resp.DownloadSize)
		logger.Info("  Type: %s", resp.UpdateType)
		if resp.IsForced != nil && *resp.IsForced {
			logger.Warn("  This update is REQUIRED")
		}
		if resp.ReleaseNotes != "" {
			logger.Info("Release notes:\n%s", resp.ReleaseNotes)
		}
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <artifact-name>",
	Short: "Download an APK artifact from the update server",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		destDir, _ := cmd.Flags().GetString("dest")

		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = " Downloading " + args[0] + "..."
		s.Start()

		c := client.New(serverURL)
		path, err := c.Download(context.Background(), args[0], destDir)
		s.Stop()

		if err != nil {
			logger.Error("Download failed: %v", err)
			os.Exit(1)
		}

		logger.Info("Downloaded to %s", path)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show update server statistics",
	Run: func(cmd *cobra.Command, args []string) {
		c := client.New(serverURL)
		resp, err := c.Stats(context.Background())
		if err != nil {
			logger.Error("Failed to fetch stats: %v", err)
			os.Exit(1)
		}

		logger.Info("Server time: %s", resp.ServerTime)
		logger.Info("Latest version (default cohort): %s", resp.LatestVersion)
		logger.Info("Available artifacts: %d", resp.AvailableVersions)
		for _, name := range resp.APKFiles {
			logger.Info("  - %s", name)
		}
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the update server's health endpoint",
	Run: func(cmd *cobra.Command, args []string) {
		c := client.New(serverURL)
		resp, err := c.Health(context.Background())
		if err != nil {
			logger.Error("Health check failed: %v", err)
			os.Exit(1)
		}

		logger.Info("Status: %s (server time %s, version %s)", resp.Status, resp.Timestamp, resp.Version)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print cg500ctl version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(buildinfo.Info())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "Update server base URL")

	checkCmd.Flags().String("current-version", "1.0.0", "Version to report to the server")
	checkCmd.Flags().String("platform", "android", "Platform to report to the server")

	downloadCmd.Flags().String("dest", ".", "Destination directory for the downloaded artifact")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	initLogger()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
