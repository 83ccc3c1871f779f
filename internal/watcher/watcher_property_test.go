//go:build property

package watcher

import (
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestFilterProperties validates the filters used by watch mode
func TestFilterProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9876)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	// Property: a generated sibling of an accepted source is always rejected
	properties.Property("generated outputs never retrigger", prop.ForAll(
		func(dir, stem, ext string) bool {
			source := NoGeneratedFilter(".meta")
			in := filepath.Join(dir, stem+ext)
			out := filepath.Join(dir, stem+".meta"+ext)
			return source(in) && !source(out)
		},
		gen.RegexMatch(`^[a-z]{0,6}$`),
		gen.RegexMatch(`^[a-z_]{1,8}$`),
		gen.OneConstOf(".c", ".h"),
	))

	// Property: SourceFilter depends only on the extension
	properties.Property("source filter matches extension", prop.ForAll(
		func(stem, ext string) bool {
			filter := SourceFilter([]string{".c", ".h"})
			want := ext == ".c" || ext == ".h"
			return filter(stem+ext) == want
		},
		gen.RegexMatch(`^[a-z_]{1,8}$`),
		gen.OneConstOf(".c", ".h", ".go", ".txt", ""),
	))

	// Property: anything below .git is rejected
	properties.Property("git internals rejected", prop.ForAll(
		func(prefix, name string) bool {
			return !NoGitFilter(filepath.Join(prefix, ".git", name))
		},
		gen.RegexMatch(`^[a-z]{0,6}$`),
		gen.RegexMatch(`^[a-z]{1,6}$`),
	))

	properties.TestingRun(t)
}
