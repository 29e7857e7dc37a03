package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the facturador application
var rootCmd = &cobra.Command{
	Use:   "facturador",
	Short: "Collects invoice attachments from Gmail into downloadable archives",
	Long: `facturador searches a connected Gmail mailbox for invoice-bearing
messages in a date range, extracts their PDF and JSON attachments into a
structured workspace, and bundles everything into a zip archive.

It can run as:
  - An HTTP API server (default)
  - A one-off retention cleanup of old archives`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "facturador version %s\n" .Version}}`)

	// If no subcommand is provided, run the server by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCleanupCmd())
	rootCmd.AddCommand(newVersionCmd())
}
