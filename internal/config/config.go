// Package config provides configuration management for metac using Viper
// for loading from files, environment variables, and command-line flags.
//
// The configuration file is YAML (.metac.yml by default). Every key can be
// overridden from the environment with the METAC_ prefix, for example
// METAC_OUTPUT_INFIX=.gen. Sections cover which files are scanned, how output
// paths are derived, the capacity limits of a run, watch debouncing, and
// logging.
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/conneroisu/metac/internal/arena"
	"github.com/spf13/viper"
)

// Defaults used when a key is not set.
const (
	DefaultInfix             = ".meta"
	DefaultExtension         = ".c"
	DefaultDebounce          = 300 * time.Millisecond
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultConfigFileName    = ".metac"
	EnvPrefix                = "METAC"
	ConfigFileEnvironmentKey = "METAC_CONFIG_FILE"
)

// DefaultSourceExtensions lists the extensions that keep their suffix when an
// output path is derived.
var DefaultSourceExtensions = []string{".c", ".h"}

type Config struct {
	Scan        ScanConfig   `yaml:"scan" json:"scan" mapstructure:"scan"`
	Output      OutputConfig `yaml:"output" json:"output" mapstructure:"output"`
	Cells       CellsConfig  `yaml:"cells" json:"cells" mapstructure:"cells"`
	Limits      arena.Limits `yaml:"limits" json:"limits" mapstructure:"limits"`
	Watch       WatchConfig  `yaml:"watch" json:"watch" mapstructure:"watch"`
	Log         LogConfig    `yaml:"log" json:"log" mapstructure:"log"`
	TargetFiles []string     `yaml:"-" json:"-" mapstructure:"-"` // CLI arguments, not from config file
}

type ScanConfig struct {
	Paths   []string `yaml:"paths" json:"paths" mapstructure:"paths"`
	Exclude []string `yaml:"exclude" json:"exclude" mapstructure:"exclude"`
	// Workers bounds concurrent file runs; 0 means one per CPU.
	Workers int `yaml:"workers" json:"workers" mapstructure:"workers"`
}

type OutputConfig struct {
	Infix            string   `yaml:"infix" json:"infix" mapstructure:"infix"`
	SourceExtensions []string `yaml:"source_extensions" json:"source_extensions" mapstructure:"source_extensions"`
	DefaultExtension string   `yaml:"default_extension" json:"default_extension" mapstructure:"default_extension"`
}

type CellsConfig struct {
	DepthAware bool `yaml:"depth_aware" json:"depth_aware" mapstructure:"depth_aware"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" json:"debounce" mapstructure:"debounce"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level" mapstructure:"level"`
	Format string `yaml:"format" json:"format" mapstructure:"format"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// RegisterDefaults makes every key known to the global viper instance so
// that METAC_* environment variables can override keys absent from the file.
func RegisterDefaults() {
	d := Default()
	viper.SetDefault("scan.paths", d.Scan.Paths)
	viper.SetDefault("scan.exclude", d.Scan.Exclude)
	viper.SetDefault("scan.workers", d.Scan.Workers)
	viper.SetDefault("output.infix", d.Output.Infix)
	viper.SetDefault("output.source_extensions", d.Output.SourceExtensions)
	viper.SetDefault("output.default_extension", d.Output.DefaultExtension)
	viper.SetDefault("cells.depth_aware", d.Cells.DepthAware)
	viper.SetDefault("limits.max_output_bytes", d.Limits.MaxOutputBytes)
	viper.SetDefault("limits.max_tables", d.Limits.MaxTables)
	viper.SetDefault("limits.max_spans", d.Limits.MaxSpans)
	viper.SetDefault("limits.max_diagnostics", d.Limits.MaxDiagnostics)
	viper.SetDefault("watch.debounce", d.Watch.Debounce)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)
}

// Load reads the configuration from the global viper instance, applies
// defaults, and validates the result.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle slices set via viper (workaround for viper slice handling)
	if viper.IsSet("scan.paths") && len(config.Scan.Paths) == 0 {
		config.Scan.Paths = viper.GetStringSlice("scan.paths")
	}
	if viper.IsSet("scan.exclude") && len(config.Scan.Exclude) == 0 {
		config.Scan.Exclude = viper.GetStringSlice("scan.exclude")
	}
	if viper.IsSet("output.source_extensions") && len(config.Output.SourceExtensions) == 0 {
		config.Output.SourceExtensions = viper.GetStringSlice("output.source_extensions")
	}
	if viper.IsSet("cells.depth_aware") {
		config.Cells.DepthAware = viper.GetBool("cells.depth_aware")
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadFile reads one configuration file on its own viper instance, ignoring
// the environment, and returns the defaulted configuration together with
// its full validation result.
func LoadFile(path string) (*Config, *ValidationResult, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	applyDefaults(&config)

	return &config, ValidateConfigWithDetails(&config), nil
}

func applyDefaults(config *Config) {
	if len(config.Scan.Paths) == 0 {
		config.Scan.Paths = []string{"."}
	}
	if len(config.Scan.Exclude) == 0 {
		config.Scan.Exclude = []string{".git", "node_modules", "vendor"}
	}

	if config.Output.Infix == "" {
		config.Output.Infix = DefaultInfix
	}
	if len(config.Output.SourceExtensions) == 0 {
		config.Output.SourceExtensions = append([]string(nil), DefaultSourceExtensions...)
	}
	if config.Output.DefaultExtension == "" {
		config.Output.DefaultExtension = DefaultExtension
	}

	config.Limits = config.Limits.WithDefaults()

	if config.Watch.Debounce == 0 {
		config.Watch.Debounce = DefaultDebounce
	}

	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}
}

// EffectiveWorkers resolves Scan.Workers to a positive count.
func (c *Config) EffectiveWorkers() int {
	if c.Scan.Workers > 0 {
		return c.Scan.Workers
	}
	return runtime.NumCPU()
}
