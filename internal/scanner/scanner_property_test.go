//go:build property
// +build property

package scanner

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/conneroisu/metac/internal/config"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestOutputPathProperties tests invariants of output path derivation
func TestOutputPathProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	out := config.Default().Output

	// Property: a derived path is always recognized as generated
	properties.Property("derived paths are generated", prop.ForAll(
		func(dir, stem, ext string) bool {
			in := filepath.Join(dir, stem+ext)
			return IsGenerated(OutputPath(in, out), out.Infix)
		},
		gen.RegexMatch(`^[a-z]{0,6}$`),
		gen.RegexMatch(`^[a-z_]{1,8}$`),
		gen.OneConstOf(".c", ".h", ".txt", ""),
	))

	// Property: the input never counts as generated, so it never equals its output
	properties.Property("output differs from input", prop.ForAll(
		func(stem, ext string) bool {
			in := stem + ext
			return !IsGenerated(in, out.Infix) && OutputPath(in, out) != in
		},
		gen.RegexMatch(`^[a-z_]{1,8}$`),
		gen.OneConstOf(".c", ".h", ".txt", ""),
	))

	// Property: source extensions survive derivation
	properties.Property("extension preserved", prop.ForAll(
		func(stem, ext string) bool {
			derived := OutputPath(stem+ext, out)
			return strings.HasSuffix(derived, out.Infix+ext) && filepath.Dir(derived) == filepath.Dir(stem+ext)
		},
		gen.RegexMatch(`^[a-z_]{1,8}$`),
		gen.OneConstOf(".c", ".h"),
	))

	properties.TestingRun(t)
}
