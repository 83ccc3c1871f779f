//go:build property
// +build property

package meta

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestExpandProperties checks invariants that hold for any input.
func TestExpandProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	// Property: text without a marker is copied unchanged
	properties.Property("marker-free passthrough", prop.ForAll(
		func(s string) bool {
			input := strings.ReplaceAll(s, "@", "")
			result, err := Expand([]byte(input))
			if err != nil || !result.OK() {
				return false
			}
			return string(result.Output) == input
		},
		gen.AnyString(),
	))

	// Property: output and diagnostics are mutually exclusive
	properties.Property("all or nothing", prop.ForAll(
		func(input string) bool {
			result, err := Expand([]byte(input))
			if err != nil {
				return false
			}
			if len(result.Diagnostics) > 0 {
				return result.Output == nil
			}
			return result.Output != nil
		},
		gen.RegexMatch("^(@table|@expand|@table_gen_enum|[a-c(){}`$. ,'\"\\\\])*$"),
	))

	// Property: every diagnostic points inside the input
	properties.Property("diagnostic offsets in range", prop.ForAll(
		func(input string) bool {
			result, err := Expand([]byte(input))
			if err != nil {
				return false
			}
			for _, d := range result.Diagnostics {
				if d.Offset < 0 || d.Offset > len(input) {
					return false
				}
			}
			return true
		},
		gen.RegexMatch("^(@table\\(a\\) T |@expand\\(T r\\) |[a-c(){}`$. ,\"])*$"),
	))

	// Property: a well-formed table replays one line per row, in order
	properties.Property("table round trip", prop.ForAll(
		func(width int, rows []string) bool {
			labels := make([]string, width)
			placeholders := make([]string, width)
			for i := range labels {
				labels[i] = fmt.Sprintf("l%d", i)
				placeholders[i] = fmt.Sprintf("$(r.l%d)", i)
			}

			var src, want strings.Builder
			fmt.Fprintf(&src, "@table(%s) T {\n", strings.Join(labels, ", "))
			for _, row := range rows {
				cells := make([]string, width)
				for i := range cells {
					cells[i] = fmt.Sprintf("%s%d", row, i)
				}
				fmt.Fprintf(&src, "  { %s }\n", strings.Join(cells, " "))
				fmt.Fprintf(&want, "%s\n", strings.Join(cells, "|"))
			}
			fmt.Fprintf(&src, "}@expand(T r) `%s`", strings.Join(placeholders, "|"))

			result, err := Expand([]byte(src.String()))
			if err != nil || !result.OK() {
				return false
			}
			return string(result.Output) == want.String()
		},
		gen.IntRange(1, 5),
		gen.SliceOf(gen.RegexMatch(`^[a-z0-9_]{1,8}$`)),
	))

	properties.TestingRun(t)
}
