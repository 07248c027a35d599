package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/darkelement/perceptia/internal/config"
	"github.com/darkelement/perceptia/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect local perceptia configuration",
	Long: `Inspect the local perceptia configuration: the layered result of
defaults, a config file, and PERCEPTIA_* environment variables, or the
JSON schema that describes every field.

Subcommands:
  show    Display the resolved configuration
  schema  Generate a JSON schema for the configuration file`,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSchemaCmd)
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the resolved configuration",
	Long: `Display the configuration perceptia would load: defaults overridden
by the config file (--config) and then by PERCEPTIA_* environment
variables.

Examples:
  # Show as YAML
  perceptiactl config show

  # Show as JSON
  perceptiactl config show -o json`,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(perceptiaCfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, cfg)
	default:
		return output.PrintYAML(os.Stdout, cfg)
	}
}

var configSchemaOutput string

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate a JSON schema for the configuration file",
	Long: `Generate a JSON schema describing every perceptia configuration
field, suitable for IDE autocompletion and validation.

Examples:
  # Print schema to stdout
  perceptiactl config schema

  # Save schema to file
  perceptiactl config schema --output config.schema.json`,
	RunE: runConfigSchema,
}

func init() {
	configSchemaCmd.Flags().StringVarP(&configSchemaOutput, "output-file", "f", "", "output file (default: stdout)")
}

func runConfigSchema(cmd *cobra.Command, args []string) error {
	schema := config.JSONSchema()

	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if configSchemaOutput != "" {
		if err := os.WriteFile(configSchemaOutput, schemaJSON, 0o644); err != nil {
			return fmt.Errorf("failed to write schema file: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "JSON schema written to %s\n", configSchemaOutput)
		return nil
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(schemaJSON))
	return nil
}
