// Package scanner runs the expander over files on disk.
//
// A FileScanner reads one input file, expands it, and writes the result next
// to it (or to an explicit destination), rendering diagnostics to stderr when
// the input has faults. ScanDirectory finds every source file under a
// directory that contains a directive and processes them on a persistent
// worker pool. A CRC32 content hash per file lets watch mode skip inputs whose
// bytes did not change since the last successful run.
package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/conneroisu/metac/internal/config"
	errs "github.com/conneroisu/metac/internal/errors"
	"github.com/conneroisu/metac/internal/logging"
	"github.com/conneroisu/metac/internal/meta"
)

// Stdout is the output argument that selects standard output.
const Stdout = "-"

// FileResult describes what happened to one input file.
type FileResult struct {
	InputPath   string            `json:"input"`
	OutputPath  string            `json:"output,omitempty"`
	Tables      int               `json:"tables"`
	Bytes       int               `json:"bytes"`
	Diagnostics []errs.Diagnostic `json:"diagnostics,omitempty"`
	Skipped     bool              `json:"skipped,omitempty"`
	Duration    time.Duration     `json:"duration"`
	Err         error             `json:"-"`
}

// Success reports whether the file was expanded or skipped as unchanged.
func (r FileResult) Success() bool {
	return r.Err == nil
}

// FileScanner expands files with one engine and configuration.
type FileScanner struct {
	engine     *meta.Engine
	keywords   []meta.Keyword
	cfg        *config.Config
	logger     logging.Logger
	workerPool *WorkerPool
	hashes     *hashCache
	pathCache  *pathValidationCache

	skipUnchanged bool

	// outMu serializes writes to stdout and stderr across workers.
	outMu  sync.Mutex
	stdout io.Writer
	stderr io.Writer
}

// Option configures a FileScanner.
type Option func(*FileScanner)

// WithStdout redirects output written for the "-" destination.
func WithStdout(w io.Writer) Option {
	return func(s *FileScanner) { s.stdout = w }
}

// WithStderr redirects diagnostics and "Output:" notices.
func WithStderr(w io.Writer) Option {
	return func(s *FileScanner) { s.stderr = w }
}

// WithRoot sets the directory that scanned paths must stay inside. It
// defaults to the working directory.
func WithRoot(dir string) Option {
	return func(s *FileScanner) { s.pathCache.setRoot(dir) }
}

// WithSkipUnchanged makes ProcessFile skip inputs whose content hash matches
// the last successful run.
func WithSkipUnchanged(skip bool) Option {
	return func(s *FileScanner) { s.skipUnchanged = skip }
}

// NewFileScanner creates a scanner and starts its worker pool.
func NewFileScanner(cfg *config.Config, logger logging.Logger, opts ...Option) *FileScanner {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	s := &FileScanner{
		cfg:       cfg,
		logger:    logger.WithComponent("scanner"),
		keywords:  meta.DefaultKeywords(),
		hashes:    newHashCache(),
		pathCache: &pathValidationCache{},
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = meta.New(meta.Options{
		Keywords:        s.keywords,
		Limits:          cfg.Limits,
		DepthAwareCells: cfg.Cells.DepthAware,
	})
	s.workerPool = NewWorkerPool(cfg.EffectiveWorkers(), s)
	return s
}

// Close gracefully shuts down the scanner and its worker pool
func (s *FileScanner) Close() error {
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	return nil
}

// ProcessFile expands in and writes the output to out. An empty out derives
// the path from in; "-" writes to stdout. Diagnostics are rendered to stderr
// and reported as a content error, with nothing written.
func (s *FileScanner) ProcessFile(ctx context.Context, in, out string) (FileResult, error) {
	result := FileResult{InputPath: in}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result, err
	}

	logger, runID := logging.WithRunID(s.logger.With("file", in))
	op := logging.StartOperation(logger, "expand")
	fail := func(err error) (FileResult, error) {
		result.Err = err
		result.Duration = op.EndWithError(ctx, err)
		return result, err
	}

	content, err := os.ReadFile(in)
	if err != nil {
		return fail(errs.WrapIO(err, errs.ErrCodeReadFailed, "cannot read input", in))
	}

	if s.skipUnchanged && !s.hashes.changed(in, content) {
		result.Skipped = true
		result.Duration = op.End(ctx, "skipped", true)
		return result, nil
	}

	run, err := s.engine.Run(content)
	if err != nil {
		var me *errs.MetacError
		if !errors.As(err, &me) {
			me = errs.NewCapacityError(err)
		}
		return fail(me.WithFile(in).WithContext("run_id", runID))
	}
	result.Tables = len(run.Tables)

	if !run.OK() {
		result.Diagnostics = run.Diagnostics
		s.outMu.Lock()
		renderErr := errs.Render(s.stderr, run.Diagnostics)
		s.outMu.Unlock()
		if renderErr != nil {
			logger.Warn(ctx, renderErr, "Failed to render diagnostics")
		}
		// The diagnostics are the whole report on stderr; the run ends at
		// debug level so no log record joins them.
		err := errs.NewContentError(in, len(run.Diagnostics))
		result.Err = err
		result.Duration = op.End(ctx, "diagnostics", len(run.Diagnostics))
		return result, err
	}

	if out == "" {
		out = OutputPath(in, s.cfg.Output)
	}
	result.OutputPath = out
	result.Bytes = len(run.Output)

	if err := s.write(out, run.Output); err != nil {
		return fail(err)
	}
	s.hashes.store(in, content)

	result.Duration = op.End(ctx, "output", out, "tables", result.Tables, "bytes", result.Bytes)
	return result, nil
}

func (s *FileScanner) write(out string, data []byte) error {
	s.outMu.Lock()
	defer s.outMu.Unlock()

	if out == Stdout {
		if _, err := s.stdout.Write(data); err != nil {
			return errs.WrapIO(err, errs.ErrCodeWriteFailed, "cannot write output", out)
		}
		return nil
	}

	if err := os.WriteFile(out, data, 0644); err != nil {
		return errs.WrapIO(err, errs.ErrCodeWriteFailed, "cannot write output", out)
	}
	fmt.Fprintf(s.stderr, "Output: %s\n", out)
	return nil
}

// ScanDirectory processes every candidate file under dir.
func (s *FileScanner) ScanDirectory(ctx context.Context, dir string) ([]FileResult, error) {
	files, err := s.FindFiles(dir)
	if err != nil {
		return nil, err
	}
	return s.ProcessFiles(ctx, files), nil
}

// FindFiles lists the files under dir that ScanDirectory would process.
func (s *FileScanner) FindFiles(dir string) ([]string, error) {
	if _, err := s.validatePath(dir); err != nil {
		return nil, errs.WrapIO(err, errs.ErrCodePathTraversal, "invalid directory path", dir)
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if s.excluded(path) {
			if d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			if !d.IsDir() {
				return nil
			}
		}
		if d.IsDir() || !s.IsCandidate(path) {
			return nil
		}

		// Skip invalid paths silently
		if _, err := s.validatePath(path); err != nil {
			return nil
		}
		if ok, err := s.hasDirective(path); err != nil || !ok {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errs.WrapIO(err, errs.ErrCodeReadFailed, "cannot walk directory", dir)
	}
	return files, nil
}

// IsCandidate reports whether path has a source extension and is not itself
// a generated file.
func (s *FileScanner) IsCandidate(path string) bool {
	return HasSourceExtension(path, s.cfg.Output.SourceExtensions) &&
		!IsGenerated(path, s.cfg.Output.Infix)
}

func (s *FileScanner) excluded(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range s.cfg.Scan.Exclude {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// hasDirective reports whether the file mentions any keyword after a marker.
func (s *FileScanner) hasDirective(path string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	for _, kw := range s.keywords {
		if bytes.Contains(content, []byte("@"+kw.Name)) {
			return true, nil
		}
	}
	return false, nil
}

// ProcessFiles expands files on the worker pool and returns their results
// in input order.
func (s *FileScanner) ProcessFiles(ctx context.Context, files []string) []FileResult {
	if len(files) == 0 {
		return nil
	}

	// For very small batches, process synchronously to avoid overhead
	if len(files) <= 2 {
		results := make([]FileResult, len(files))
		for i, file := range files {
			results[i], _ = s.ProcessFile(ctx, file, "")
		}
		return results
	}

	resultChan := make(chan indexedResult, len(files))
	for i, file := range files {
		job := ScanJob{ctx: ctx, index: i, filePath: file, result: resultChan}
		if !s.workerPool.Submit(job) {
			// Worker pool is full or stopped, process synchronously as fallback
			r, _ := s.ProcessFile(ctx, file, "")
			resultChan <- indexedResult{index: i, result: r}
		}
	}

	results := make([]FileResult, len(files))
	for range files {
		r := <-resultChan
		results[r.index] = r.result
	}
	return results
}

// Summarize counts results by outcome.
func Summarize(results []FileResult) Summary {
	var sum Summary
	for _, r := range results {
		sum.Total++
		sum.Duration += r.Duration
		switch {
		case r.Skipped:
			sum.Skipped++
		case r.Err == nil:
			sum.Expanded++
		default:
			sum.Failed++
			sum.Diagnostics += len(r.Diagnostics)
		}
	}
	return sum
}

// Summary aggregates a batch of results.
type Summary struct {
	Total       int           `json:"total"`
	Expanded    int           `json:"expanded"`
	Skipped     int           `json:"skipped"`
	Failed      int           `json:"failed"`
	Diagnostics int           `json:"diagnostics"`
	Duration    time.Duration `json:"duration"`
}

// HasSourceExtension reports whether path ends with one of exts.
func HasSourceExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
