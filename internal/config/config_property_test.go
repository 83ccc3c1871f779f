//go:build property
// +build property

package config

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestConfigurationProperties tests configuration validation properties
func TestConfigurationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: defaults plus well-formed paths always validate
	properties.Property("valid config parsing", prop.ForAll(
		func(workers int, paths []string) bool {
			cfg := Default()
			cfg.Scan.Workers = workers
			if len(paths) > 0 {
				cfg.Scan.Paths = paths
			}
			return validateConfig(cfg) == nil
		},
		gen.IntRange(0, 64),
		gen.SliceOfN(5, gen.RegexMatch(`^[a-zA-Z0-9_/]+$`)),
	))

	// Property: any path with a traversal segment is rejected
	properties.Property("traversal rejected", prop.ForAll(
		func(prefix, suffix string) bool {
			return validatePath(prefix+"/../../"+suffix) != nil
		},
		gen.RegexMatch(`^[a-z]{1,5}$`),
		gen.RegexMatch(`^[a-z]{1,5}$`),
	))

	// Property: an infix validates exactly when it is dotted and separator free
	properties.Property("infix validation", prop.ForAll(
		func(infix string) bool {
			cfg := Default()
			cfg.Output.Infix = infix
			valid := infix != "" && strings.HasPrefix(infix, ".") && !strings.ContainsAny(infix, `/\`)
			return (validateConfig(cfg) == nil) == valid
		},
		gen.OneGenOf(
			gen.RegexMatch(`^\.[a-z]{1,6}$`),
			gen.RegexMatch(`^[a-z./\\]{0,6}$`),
		),
	))

	// Property: negative limits are always rejected
	properties.Property("negative limits rejected", prop.ForAll(
		func(n int) bool {
			cfg := Default()
			cfg.Limits.MaxOutputBytes = n
			return validateConfig(cfg) != nil
		},
		gen.IntRange(-1000000, -1),
	))

	properties.TestingRun(t)
}
