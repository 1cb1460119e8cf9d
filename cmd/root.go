// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repo-search",
	Short: "A CLI tool to search GitHub repositories.",
	Long: `repo-search searches GitHub repositories and shows the results as a
paginated, sortable table with a details panel for the selected repository.

The search endpoint and access token are read from GITHUB_SEARCH_URL and
GITHUB_TOKEN, either from the environment or from a .env file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("env-file", "", "Path to a .env file (default \".env\" if present)")
}
