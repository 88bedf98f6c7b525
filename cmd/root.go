// Package cmd implements the peopled CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/peopled/peopled/internal/config"
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "peopled",
	Short: "peopled is a people directory with an MCP tool server",
	Long:  "peopled is a people directory exposing its operations as LLM tools over JSON-RPC",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = config.AppVersion

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(statusCmd)
}
