package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conneroisu/metac/internal/config"
)

// createTestSources writes count source files, each declaring a table of
// rows rows and expanding it twice.
func createTestSources(b *testing.B, count, rows int) (string, []string) {
	b.Helper()
	dir := b.TempDir()

	var body strings.Builder
	body.WriteString("@table(name, value, label) Items {\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&body, "    { Item%d %d \"item %d\" }\n", i, i, i)
	}
	body.WriteString("}\nenum item {\n@expand(Items it) `    ITEM_$(it.name) = $(it.value),`\n};\n")
	body.WriteString("static const char *names[] = {\n@expand(Items it) `    [ITEM_$(it.name)] = $(it.label),`\n};\n")

	files := make([]string, count)
	for i := range files {
		files[i] = filepath.Join(dir, fmt.Sprintf("items_%d.c", i))
		if err := os.WriteFile(files[i], []byte(body.String()), 0644); err != nil {
			b.Fatal(err)
		}
	}
	return dir, files
}

func BenchmarkProcessFile(b *testing.B) {
	for _, rows := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("rows_%d", rows), func(b *testing.B) {
			dir, files := createTestSources(b, 1, rows)
			s := NewFileScanner(config.Default(), nil, WithRoot(dir), WithStderr(discard{}))
			defer s.Close()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.ProcessFile(context.Background(), files[0], ""); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkScanDirectory(b *testing.B) {
	for _, count := range []int{10, 50} {
		b.Run(fmt.Sprintf("files_%d", count), func(b *testing.B) {
			dir, _ := createTestSources(b, count, 50)
			s := NewFileScanner(config.Default(), nil, WithRoot(dir), WithStderr(discard{}))
			defer s.Close()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.ScanDirectory(context.Background(), dir); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
