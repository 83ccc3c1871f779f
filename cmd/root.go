// Package cmd provides the command-line interface for metac with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --log-level, etc.) - highest priority
//	2. METAC_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (METAC_OUTPUT_INFIX, etc.)
//	4. Configuration files (.metac.yml) - lowest priority
//
// Environment Variables:
//
//	METAC_CONFIG_FILE: Path to custom configuration file
//	METAC_OUTPUT_INFIX: Override the infix inserted into output names
//	METAC_SCAN_WORKERS: Override the number of concurrent file runs
//	And every other key following the METAC_<SECTION>_<OPTION> pattern
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/conneroisu/metac/internal/config"
	errs "github.com/conneroisu/metac/internal/errors"
	"github.com/conneroisu/metac/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "metac",
	Short: "Expand @table and @expand directives in C sources",
	Long: `metac is a text preprocessor for C code. It reads tables declared with
@table and replays templates over their rows wherever @expand appears,
writing the expanded source next to the input.

Directives:
  @table(name, value) Items { { A 1 } { B 2 } }
  @expand(Items it) ` + "`    ITEM_$(it.name) = $(it.value),`" + `

Quick Start:
  metac expand enum.c             Expand one file to enum.meta.c
  metac expand enum.c -           Expand one file to stdout
  metac generate                  Expand every file under the scan paths
  metac watch                     Re-expand files as they change
  metac tables enum.c             List the tables declared in a file

Command Aliases (for faster typing):
  expand (e), generate (g), watch (w), tables (t)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Diagnostics are already on stderr when a content error comes back, so only
// other failures are printed here.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errs.IsContentError(err) {
		fmt.Fprintln(os.Stderr, "Error:", errs.FormatError(err))
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .metac.yml, can also use METAC_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "log format (text, json)")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig initializes the configuration system with support for multiple config sources.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. METAC_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .metac.yml in current directory
//
// Every key is also bound to METAC_ environment variables
// (e.g., METAC_OUTPUT_INFIX=.gen).
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv(config.ConfigFileEnvironmentKey); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(config.DefaultConfigFileName)
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.RegisterDefaults()

	// A missing or malformed file leaves the defaults in place
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadRuntime loads the configuration and builds the logger every command
// shares. Logs always go to stderr because stdout may carry expanded output.
func loadRuntime(cmd *cobra.Command) (*config.Config, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, errs.WrapConfig(err, errs.ErrCodeConfigInvalid, "failed to load configuration")
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, errs.WrapConfig(err, errs.ErrCodeConfigInvalid, "invalid log level")
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    cfg.Log.Format,
		Output:    cmd.ErrOrStderr(),
		Component: "cli",
	})
	return cfg, logger.With("command", cmd.Name()), nil
}

// commandContext returns the command's context, or a background context when
// the command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
