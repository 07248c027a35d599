// Package commands implements the perceptiactl subcommands: read-only
// queries against a running perceptia server's introspection endpoints,
// plus local configuration inspection.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darkelement/perceptia/internal/introspectclient"
)

var (
	// Version information injected at build time.
	Version = "dev"

	introspectURL    string
	outputFormat     string
	perceptiaCfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "perceptiactl",
	Short: "Inspect and query a running perceptia compositor core",
	Long: `perceptiactl is a read-only CLI client for perceptia's introspection
server: it lists managed surfaces, dumps the frame tree, and reports
whether a server is reachable.

Use "perceptiactl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.main.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command, for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&introspectURL, "introspect-url", "http://localhost:9091", "base URL of the perceptia introspection server")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table|json|yaml)")
	rootCmd.PersistentFlags().StringVar(&perceptiaCfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/perceptia/config.yaml)")

	rootCmd.AddCommand(surfacesCmd)
	rootCmd.AddCommand(framesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// introspectClient builds a client against the configured introspection
// server for the current invocation.
func introspectClient() *introspectclient.Client {
	return introspectclient.New(introspectURL)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the perceptiactl version",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
		return err
	},
}
