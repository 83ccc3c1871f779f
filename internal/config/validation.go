package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/conneroisu/metac/internal/logging"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("❌ Validation Errors:\n")
		for _, err := range vr.Errors {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", err.Field, err.Message))
			for _, suggestion := range err.Suggestions {
				builder.WriteString(fmt.Sprintf("    💡 %s\n", suggestion))
			}
		}
		builder.WriteString("\n")
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("⚠️  Validation Warnings:\n")
		for _, warning := range vr.Warnings {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", warning.Field, warning.Message))
			for _, suggestion := range warning.Suggestions {
				builder.WriteString(fmt.Sprintf("    💡 %s\n", suggestion))
			}
		}
	}

	return builder.String()
}

func (vr *ValidationResult) addError(field string, value interface{}, message string, suggestions ...string) {
	vr.Errors = append(vr.Errors, ValidationError{
		Field:       field,
		Value:       value,
		Message:     message,
		Suggestions: suggestions,
	})
}

func (vr *ValidationResult) addWarning(field string, value interface{}, message string, suggestions ...string) {
	vr.Warnings = append(vr.Warnings, ValidationError{
		Field:       field,
		Value:       value,
		Message:     message,
		Suggestions: suggestions,
	})
}

// ValidateConfigWithDetails performs comprehensive validation with detailed feedback
func ValidateConfigWithDetails(config *Config) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	validateScanConfig(&config.Scan, result)
	validateOutputConfig(&config.Output, result)
	validateLimits(config, result)
	validateLogConfig(&config.Log, result)

	if config.Watch.Debounce < 0 {
		result.addError("watch.debounce", config.Watch.Debounce, "debounce must not be negative",
			"Use a duration such as 300ms")
	}

	result.Valid = !result.HasErrors()
	return result
}

// validateConfig returns the first validation error, if any.
func validateConfig(config *Config) error {
	result := ValidateConfigWithDetails(config)
	if result.HasErrors() {
		return &result.Errors[0]
	}
	return nil
}

func validateScanConfig(config *ScanConfig, result *ValidationResult) {
	if len(config.Paths) == 0 {
		result.addWarning("scan.paths", config.Paths, "no scan paths configured",
			"Add at least one directory, for example '.'")
	}
	for _, path := range config.Paths {
		if err := validatePath(path); err != nil {
			result.addError("scan.paths", path, fmt.Sprintf("invalid scan path '%s': %v", path, err),
				"Use relative paths inside the project")
		}
	}

	for _, pattern := range config.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.addError("scan.exclude", pattern, fmt.Sprintf("invalid exclude pattern '%s': %v", pattern, err))
		}
	}

	if config.Workers < 0 {
		result.addError("scan.workers", config.Workers, "workers must not be negative",
			"Use 0 to run one worker per CPU")
	} else if config.Workers > 64 {
		result.addWarning("scan.workers", config.Workers, "more than 64 workers rarely helps")
	}
}

func validateOutputConfig(config *OutputConfig, result *ValidationResult) {
	if err := validateExtension(config.Infix); err != nil {
		result.addError("output.infix", config.Infix, err.Error(),
			fmt.Sprintf("The default infix is %s", DefaultInfix))
	}
	if err := validateExtension(config.DefaultExtension); err != nil {
		result.addError("output.default_extension", config.DefaultExtension, err.Error())
	}
	for _, ext := range config.SourceExtensions {
		if err := validateExtension(ext); err != nil {
			result.addError("output.source_extensions", ext, err.Error())
		}
	}
}

func validateLimits(config *Config, result *ValidationResult) {
	if err := config.Limits.Validate(); err != nil {
		result.addError("limits", config.Limits, err.Error(),
			"Use 0 to take the built-in default")
	}
}

func validateLogConfig(config *LogConfig, result *ValidationResult) {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		result.addError("log.level", config.Level, err.Error(),
			"Valid levels: debug, info, warn, error")
	}
	switch config.Format {
	case "", "text", "json":
	default:
		result.addError("log.format", config.Format, fmt.Sprintf("unknown log format %q", config.Format),
			"Valid formats: text, json")
	}
}

// validateExtension checks a dotted file name suffix such as ".meta".
func validateExtension(ext string) error {
	if ext == "" {
		return fmt.Errorf("must not be empty")
	}
	if !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("%q must start with '.'", ext)
	}
	if strings.ContainsAny(ext, `/\`) {
		return fmt.Errorf("%q must not contain path separators", ext)
	}
	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	// Reject path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	// Reject dangerous characters
	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
