package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/conneroisu/metac/internal/config"
	errs "github.com/conneroisu/metac/internal/errors"
	"github.com/conneroisu/metac/internal/logging"
	"github.com/conneroisu/metac/internal/scanner"
	"github.com/conneroisu/metac/internal/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Re-expand source files as they change",
	Long: `Expand every file under the configured scan paths, then watch them and
re-expand each source file shortly after it changes (watch.debounce).
Files whose content did not change since their last successful expansion
are skipped. Press Ctrl+C to stop.

Examples:
  metac watch                     # Watch all configured paths
  metac w --verbose               # Report every re-expanded file`,
	RunE: runWatch,
}

var watchVerbose bool

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Verbose output")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s := scanner.NewFileScanner(cfg, logger,
		scanner.WithStderr(cmd.ErrOrStderr()),
		scanner.WithSkipUnchanged(true),
	)
	defer s.Close()

	fileWatcher, err := newSourceWatcher(cfg, logger, s, cmd)
	if err != nil {
		return err
	}
	defer fileWatcher.Stop()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "📁 Performing initial expansion...")
	results, failed := generatePaths(ctx, s, cfg.Scan.Paths, logger)
	sum := scanner.Summarize(results)
	fmt.Fprintf(out, "Expanded %d of %d files (%d failed)\n", sum.Expanded, sum.Total, sum.Failed+failed)

	if err := fileWatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	fmt.Fprintln(out, "👀 Watching for changes... (Press Ctrl+C to stop)")
	<-ctx.Done()
	fmt.Fprintln(out, "\n🛑 Stopping file watcher...")
	return nil
}

// newSourceWatcher builds a watcher over the scan paths that re-expands the
// source files of each debounced batch.
func newSourceWatcher(cfg *config.Config, logger logging.Logger, s *scanner.FileScanner, cmd *cobra.Command) (*watcher.FileWatcher, error) {
	fileWatcher, err := watcher.NewFileWatcher(cfg.Watch.Debounce, "", logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	fileWatcher.AddFilter(watcher.SourceFilter(cfg.Output.SourceExtensions))
	fileWatcher.AddFilter(watcher.NoGeneratedFilter(cfg.Output.Infix))
	fileWatcher.AddFilter(watcher.ExcludeFilter(cfg.Scan.Exclude))
	fileWatcher.AddFilter(watcher.NoGitFilter)
	fileWatcher.AddHandler(expandChanged(s, errs.NewErrorHandler(logger), cmd))

	exclude := watcher.ExcludeFilter(cfg.Scan.Exclude)
	skip := func(dir string) bool { return !exclude(dir) }

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔍 Setting up file watching...")
	for _, path := range cfg.Scan.Paths {
		if err := fileWatcher.AddRecursive(path, skip); err != nil {
			logger.Warn(context.Background(), err, "Failed to watch path", "path", path)
			continue
		}
		fmt.Fprintf(out, "   - Watching: %s\n", path)
	}
	return fileWatcher, nil
}

// expandChanged returns the handler that re-expands each changed file.
// Deleted files have nothing to expand; their stored hash is dropped so a
// recreated file is expanded again. Failures are logged through h.
func expandChanged(s *scanner.FileScanner, h *errs.ErrorHandler, cmd *cobra.Command) watcher.ChangeHandler {
	return func(ctx context.Context, events []watcher.ChangeEvent) error {
		out := cmd.OutOrStdout()
		if watchVerbose {
			fmt.Fprintf(out, "📁 File changes detected:\n")
			for _, event := range events {
				fmt.Fprintf(out, "   %s: %s\n", event.Type, event.Path)
			}
		} else {
			fmt.Fprintf(out, "📁 %d file(s) changed\n", len(events))
		}

		var failed int
		for _, event := range events {
			if event.Type == watcher.EventTypeDeleted || event.Type == watcher.EventTypeRenamed {
				s.Forget(event.Path)
				continue
			}
			result, err := s.ProcessFile(ctx, event.Path, "")
			if err != nil {
				h.Handle(ctx, err)
				failed++
				continue
			}
			if watchVerbose && result.Skipped {
				fmt.Fprintf(out, "   unchanged: %s\n", event.Path)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed to expand", failed, len(events))
		}
		return nil
	}
}
