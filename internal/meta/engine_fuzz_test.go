package meta

import (
	"testing"
)

// FuzzEngineRun tests that arbitrary input never panics and that a run
// either produces output or diagnostics, never both.
func FuzzEngineRun(f *testing.F) {
	f.Add(enumTable + "@expand(MyEnumTable a) `    MyEnum_$(a.name),`")
	f.Add("@table(a) T { { (a(b)c) } }\n@expand(T t) `$(t.a)`")
	f.Add("@table() T {}\n")
	f.Add("@expand(T t) `x`")
	f.Add("@table(a, b) T { { 1 2 } { \"x y\" z } }\n@expand(T r) `$(r.b)$(r.a)`\n")
	f.Add("@")
	f.Add("")

	engines := []*Engine{
		New(Options{}),
		New(Options{DepthAwareCells: true}),
	}

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 4096 {
			t.Skip("Input too large")
		}

		for _, engine := range engines {
			result, err := engine.Run([]byte(input))
			if err != nil {
				continue
			}

			if result.OK() {
				if result.Output == nil {
					t.Errorf("Successful run returned nil output for %q", input)
				}
				continue
			}

			if result.Output != nil {
				t.Errorf("Output produced alongside %d diagnostics for %q", len(result.Diagnostics), input)
			}
			for _, d := range result.Diagnostics {
				if d.Offset < 0 || d.Offset > len(input) {
					t.Errorf("Diagnostic offset %d outside input of length %d: %s", d.Offset, len(input), d.Message)
				}
			}
		}
	})
}
