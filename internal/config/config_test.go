package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/conneroisu/metac/internal/arena"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name          string
		setup         func()
		expectError   bool
		expectedPaths []string
	}{
		{
			name: "successful load with defaults",
			setup: func() {
				viper.Reset()
			},
			expectedPaths: []string{"."},
		},
		{
			name: "successful load with custom scan paths",
			setup: func() {
				viper.Reset()
				viper.Set("scan.paths", []string{"./src", "./include"})
			},
			expectedPaths: []string{"./src", "./include"},
		},
		{
			name: "invalid workers type",
			setup: func() {
				viper.Reset()
				viper.Set("scan.workers", "many")
			},
			expectError: true,
		},
		{
			name: "path traversal rejected",
			setup: func() {
				viper.Reset()
				viper.Set("scan.paths", []string{"../outside"})
			},
			expectError: true,
		},
		{
			name: "infix without dot rejected",
			setup: func() {
				viper.Reset()
				viper.Set("output.infix", "meta")
			},
			expectError: true,
		},
		{
			name: "unknown log level rejected",
			setup: func() {
				viper.Reset()
				viper.Set("log.level", "loud")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer viper.Reset()

			config, err := Load()

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, config)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, config)
			assert.Equal(t, tt.expectedPaths, config.Scan.Paths)
		})
	}
}

func TestConfigStructure(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("scan.paths", []string{"./gen"})
	viper.Set("scan.exclude", []string{"build", "*.tmp"})
	viper.Set("scan.workers", 3)
	viper.Set("output.infix", ".gen")
	viper.Set("output.source_extensions", []string{".c", ".h", ".inc"})
	viper.Set("output.default_extension", ".h")
	viper.Set("cells.depth_aware", true)
	viper.Set("limits.max_tables", 12)
	viper.Set("watch.debounce", "750ms")
	viper.Set("log.level", "debug")
	viper.Set("log.format", "json")

	config, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"./gen"}, config.Scan.Paths)
	assert.Equal(t, []string{"build", "*.tmp"}, config.Scan.Exclude)
	assert.Equal(t, 3, config.Scan.Workers)
	assert.Equal(t, 3, config.EffectiveWorkers())
	assert.Equal(t, ".gen", config.Output.Infix)
	assert.Equal(t, []string{".c", ".h", ".inc"}, config.Output.SourceExtensions)
	assert.Equal(t, ".h", config.Output.DefaultExtension)
	assert.True(t, config.Cells.DepthAware)
	assert.Equal(t, 12, config.Limits.MaxTables)
	assert.Equal(t, arena.DefaultMaxOutputBytes, config.Limits.MaxOutputBytes)
	assert.Equal(t, 750*time.Millisecond, config.Watch.Debounce)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
}

func TestConfigDefaults(t *testing.T) {
	config := Default()

	assert.Equal(t, []string{"."}, config.Scan.Paths)
	assert.Equal(t, DefaultInfix, config.Output.Infix)
	assert.Equal(t, []string{".c", ".h"}, config.Output.SourceExtensions)
	assert.Equal(t, DefaultExtension, config.Output.DefaultExtension)
	assert.False(t, config.Cells.DepthAware)
	assert.Equal(t, arena.Limits{}.WithDefaults(), config.Limits)
	assert.Equal(t, DefaultDebounce, config.Watch.Debounce)
	assert.Equal(t, "info", config.Log.Level)
	assert.Empty(t, config.TargetFiles)
	assert.Positive(t, config.EffectiveWorkers())

	// Mutating one default must not leak into the next.
	config.Output.SourceExtensions[0] = ".x"
	assert.Equal(t, ".c", Default().Output.SourceExtensions[0])
}

func TestLoadWithEnvironment(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	t.Setenv("METAC_OUTPUT_INFIX", ".expanded")
	t.Setenv("METAC_SCAN_WORKERS", "7")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	RegisterDefaults()

	config, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ".expanded", config.Output.Infix)
	assert.Equal(t, 7, config.Scan.Workers)
	assert.Equal(t, ".c", config.Output.DefaultExtension)
}

func TestValidateConfigWithDetails(t *testing.T) {
	config := Default()
	config.Scan.Paths = []string{"ok", "bad;path"}
	config.Scan.Exclude = []string{"[unclosed"}
	config.Scan.Workers = 100
	config.Output.SourceExtensions = []string{"c"}
	config.Limits.MaxSpans = -1
	config.Log.Format = "xml"
	config.Watch.Debounce = -time.Second

	result := ValidateConfigWithDetails(config)

	assert.False(t, result.Valid)
	assert.True(t, result.HasWarnings())

	fields := make(map[string]bool)
	for _, e := range result.Errors {
		fields[e.Field] = true
	}
	for _, field := range []string{
		"scan.paths", "scan.exclude", "output.source_extensions",
		"limits", "log.format", "watch.debounce",
	} {
		assert.True(t, fields[field], field)
	}

	text := result.String()
	assert.Contains(t, text, "Validation Errors")
	assert.Contains(t, text, "Validation Warnings")
	assert.Contains(t, result.Errors[0].Error(), "validation error in scan.paths")
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"src", false},
		{"./gen/tables", false},
		{"", true},
		{"../up", true},
		{"a/../../b", true},
		{"dir;rm", true},
		{"$(cmd)", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := validatePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateExtension(t *testing.T) {
	assert.NoError(t, validateExtension(".meta"))
	assert.Error(t, validateExtension(""))
	assert.Error(t, validateExtension("meta"))
	assert.Error(t, validateExtension(".a/b"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.yml")
	require.NoError(t, os.WriteFile(valid, []byte("scan:\n  paths: [src]\n  workers: 80\noutput:\n  infix: .gen\n"), 0644))

	config, result, err := LoadFile(valid)
	require.NoError(t, err)
	assert.Equal(t, []string{"src"}, config.Scan.Paths)
	assert.Equal(t, ".gen", config.Output.Infix)
	assert.Equal(t, DefaultExtension, config.Output.DefaultExtension)
	assert.True(t, result.Valid)
	assert.True(t, result.HasWarnings())

	invalid := filepath.Join(dir, "invalid.yml")
	require.NoError(t, os.WriteFile(invalid, []byte("output:\n  infix: gen\n"), 0644))

	_, result, err = LoadFile(invalid)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "output.infix", result.Errors[0].Field)

	_, _, err = LoadFile(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)
}
