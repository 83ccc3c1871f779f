package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/conneroisu/metac/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage metac configuration",
	Long: `Manage metac configuration files and settings.

This command provides subcommands for:
- Validating existing configuration files
- Showing current configuration values

Examples:
  metac config validate              # Validate current configuration
  metac config show                  # Show current configuration
  metac config validate --file .metac.yml  # Validate specific config file`,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a metac configuration file.

This command checks for:
- Scan paths that leave the project directory
- Output infix and extension formats
- Non-negative capacity limits
- Known log levels and formats

Examples:
  metac config validate              # Validate .metac.yml in current directory
  metac config validate --file config.yml  # Validate specific file
  metac config validate --strict    # Treat warnings as errors`,
	RunE: runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the current metac configuration including all resolved values.

This shows the final configuration after:
- Loading from configuration file
- Applying environment variable overrides
- Setting default values
- Processing command-line flags

Examples:
  metac config show                  # Show all configuration
  metac config show --format json   # Show in JSON format`,
	RunE: runConfigShow,
}

var (
	configFile   string
	configFormat string
	configStrict bool
)

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configValidateCmd.Flags().
		StringVarP(&configFile, "file", "f", "", "Configuration file to validate (default: .metac.yml)")
	configValidateCmd.Flags().BoolVar(&configStrict, "strict", false, "Treat warnings as errors")

	configShowCmd.Flags().StringVar(&configFormat, "format", "yaml", "Output format (yaml, json)")
	AddFlagValidation(configShowCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{"yaml", "yml", "json"})
	})
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	targetFile := configFile
	if targetFile == "" {
		targetFile = config.DefaultConfigFileName + ".yml"
		if _, err := os.Stat(targetFile); err != nil {
			return errors.New("no configuration file found. Use --file to specify a config file")
		}
	}

	if err := ValidateFileExists(targetFile); err != nil {
		return fmt.Errorf("configuration file %s: %w", targetFile, err)
	}

	fmt.Fprintf(out, "🔍 Validating configuration file: %s\n", targetFile)
	fmt.Fprintln(out, "=====================================")

	_, validation, err := config.LoadFile(targetFile)
	if err != nil {
		return err
	}

	if validation.Valid && !validation.HasWarnings() {
		fmt.Fprintln(out, "✅ Configuration is valid!")
		fmt.Fprintln(out, "No errors or warnings found.")
		return nil
	}

	if validation.HasErrors() {
		fmt.Fprint(out, validation.String())
		return fmt.Errorf("configuration validation failed with %d errors", len(validation.Errors))
	}

	fmt.Fprint(out, validation.String())
	if configStrict {
		return fmt.Errorf(
			"configuration validation failed in strict mode with %d warnings",
			len(validation.Warnings),
		)
	}

	fmt.Fprintln(out, "✅ Configuration is valid with warnings.")
	fmt.Fprintf(out,
		"Found %d warnings. Use --strict to treat warnings as errors.\n",
		len(validation.Warnings),
	)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	switch strings.ToLower(configFormat) {
	case "yaml", "yml":
		return showConfigYAML(cmd.OutOrStdout(), cfg)
	case "json":
		return showConfigJSON(cmd.OutOrStdout(), cfg)
	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json)", configFormat)
	}
}

func showConfigYAML(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, "# Current metac configuration")
	fmt.Fprintln(w, "# Resolved from all sources (file, env vars, defaults)")

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(cfg)
}

func showConfigJSON(w io.Writer, cfg *config.Config) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}
