package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/notium/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	configPath  string
	apiURL      string
	storagePath string
	ephemeral   bool
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notium",
	Short: "Terminal client for the Notium notes service",
	Long: `A terminal client for Notium: sign in, then create, browse, filter,
star, edit and delete short text notes with tags.

The credential token is kept in a local SQLite file; every note lives on
the Notium server.

Quick Start:
  notium login                     # Sign in
  notium list --tag work           # List notes with a tag
  notium new --title "Ideas"       # Create a note
  notium ui                        # Open the interactive client
  notium export --format md        # Export notes as Markdown`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	defer internal.SyncLogs()
	if err := rootCmd.Execute(); err != nil {
		internal.PrintError(fmt.Sprintf("Error: %s", internal.ErrorMessage(err)))
		internal.LogDebug("command failed: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/notium/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Notium API base URL (overrides config and "+internal.EnvAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Credential database path")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the credential in memory only")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
