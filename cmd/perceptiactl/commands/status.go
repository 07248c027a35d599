package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/darkelement/perceptia/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the introspection server is reachable",
	Long: `Check whether a perceptia server's introspection endpoint responds,
and report how many surfaces it currently manages.

Examples:
  # Check the default introspection URL
  perceptiactl status

  # Check a remote server
  perceptiactl status --introspect-url http://host:9091`,
	RunE: runStatus,
}

// serverStatus is the status subcommand's result, independent of rendering.
type serverStatus struct {
	URL       string `json:"url" yaml:"url"`
	Reachable bool   `json:"reachable" yaml:"reachable"`
	Surfaces  int    `json:"surfaces" yaml:"surfaces"`
	Message   string `json:"message" yaml:"message"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	client := introspectClient()
	status := serverStatus{URL: introspectURL}

	surfaces, err := client.Surfaces()
	if err != nil {
		status.Message = fmt.Sprintf("unreachable: %s", err)
	} else {
		status.Reachable = true
		status.Surfaces = len(surfaces)
		status.Message = "reachable"
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, status)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, status)
	default:
		printStatusTable(status)
		return nil
	}
}

func printStatusTable(status serverStatus) {
	fmt.Println()
	fmt.Println("Perceptia Server Status")
	fmt.Println("=======================")
	fmt.Println()
	fmt.Printf("  URL:       %s\n", status.URL)
	if status.Reachable {
		fmt.Printf("  Status:    \033[32m● Reachable\033[0m\n")
		fmt.Printf("  Surfaces:  %d\n", status.Surfaces)
	} else {
		fmt.Printf("  Status:    \033[31m○ Unreachable\033[0m\n")
	}
	fmt.Println()
	fmt.Printf("  %s\n", status.Message)
	fmt.Println()
}
