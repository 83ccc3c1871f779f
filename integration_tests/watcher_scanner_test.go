//go:build integration
// +build integration

package integration_tests

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/conneroisu/metac/internal/config"
	"github.com/conneroisu/metac/internal/scanner"
	"github.com/conneroisu/metac/internal/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const colorsSource = `@table(name) Colors {
    { Red }
    { Green }
}
@expand(Colors c) ` + "`C_$(c.name),`" + `
`

// lockedBuffer is a bytes.Buffer safe for the scanner's worker goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func setupWatch(t *testing.T, dir string) (*scanner.FileScanner, *lockedBuffer, *int64) {
	t.Helper()
	cfg := config.Default()

	stderr := &lockedBuffer{}
	s := scanner.NewFileScanner(cfg, nil,
		scanner.WithRoot(dir),
		scanner.WithStderr(stderr),
		scanner.WithSkipUnchanged(true),
	)
	t.Cleanup(func() { _ = s.Close() })

	fw, err := watcher.NewFileWatcher(100*time.Millisecond, dir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = fw.Stop() })

	fw.AddFilter(watcher.SourceFilter(cfg.Output.SourceExtensions))
	fw.AddFilter(watcher.NoGeneratedFilter(cfg.Output.Infix))

	var batches int64
	fw.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		atomic.AddInt64(&batches, 1)
		for _, event := range events {
			if _, err := s.ProcessFile(ctx, event.Path, ""); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, fw.AddRecursive(dir, nil))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, fw.Start(ctx))
	time.Sleep(100 * time.Millisecond)

	return s, stderr, &batches
}

func TestIntegration_WatcherScanner_ExpandsOnChange(t *testing.T) {
	dir := t.TempDir()
	_, _, batches := setupWatch(t, dir)

	src := filepath.Join(dir, "colors.c")
	out := filepath.Join(dir, "colors.meta.c")
	require.NoError(t, os.WriteFile(src, []byte(colorsSource), 0644))

	require.Eventually(t, func() bool {
		got, err := os.ReadFile(out)
		return err == nil && string(got) == "\nC_Red,\nC_Green,\n\n"
	}, 5*time.Second, 50*time.Millisecond)

	// Writing the output must not trigger another batch
	settled := atomic.LoadInt64(batches)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, settled, atomic.LoadInt64(batches))

	edited := colorsSource + "@expand(Colors c) `D_$(c.name)`\n"
	require.NoError(t, os.WriteFile(src, []byte(edited), 0644))

	assert.Eventually(t, func() bool {
		got, err := os.ReadFile(out)
		return err == nil && bytes.Contains(got, []byte("D_Green"))
	}, 5*time.Second, 50*time.Millisecond)
}

func TestIntegration_WatcherScanner_FaultyEditKeepsOutput(t *testing.T) {
	dir := t.TempDir()
	_, stderr, _ := setupWatch(t, dir)

	src := filepath.Join(dir, "colors.c")
	out := filepath.Join(dir, "colors.meta.c")
	require.NoError(t, os.WriteFile(src, []byte(colorsSource), 0644))

	require.Eventually(t, func() bool {
		_, err := os.Stat(out)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)
	before, err := os.ReadFile(out)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(src, []byte("@table() T {}\n"), 0644))

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(stderr.String()), []byte("Error(7): no labels defined"))
	}, 5*time.Second, 50*time.Millisecond)

	after, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestIntegration_WatcherScanner_NewSubdirectory(t *testing.T) {
	dir := t.TempDir()
	setupWatch(t, dir)

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "colors.h"), []byte(colorsSource), 0644))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(sub, "colors.meta.h"))
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)
}
