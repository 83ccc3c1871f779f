package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/conneroisu/metac/internal/config"
	errs "github.com/conneroisu/metac/internal/errors"
)

// pathValidationCache caches the scan root to avoid repeated os.Getwd calls.
type pathValidationCache struct {
	mu          sync.RWMutex
	root        string
	initialized bool
}

func (c *pathValidationCache) setRoot(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	abs, err := filepath.Abs(dir)
	if err != nil {
		return
	}
	c.root = abs
	c.initialized = true
}

// validatePath validates and cleans a path so that scanning never leaves the
// root directory.
func (s *FileScanner) validatePath(path string) (string, error) {
	cleanPath := filepath.Clean(path)

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return "", fmt.Errorf("getting absolute path: %w", err)
	}

	root, err := s.getCachedRoot()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}

	rel, err := filepath.Rel(root, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errs.NewValidationError(errs.ErrCodePathTraversal,
			fmt.Sprintf("path %s is outside %s", path, root))
	}

	// Reject paths with suspicious patterns that stay inside the root
	if strings.Contains(cleanPath, "..") {
		return "", errs.NewValidationError(errs.ErrCodePathTraversal,
			fmt.Sprintf("path contains directory traversal: %s", path))
	}

	return cleanPath, nil
}

// getCachedRoot returns the scan root, initializing it from the working
// directory on first access.
func (s *FileScanner) getCachedRoot() (string, error) {
	s.pathCache.mu.RLock()
	if s.pathCache.initialized {
		root := s.pathCache.root
		s.pathCache.mu.RUnlock()
		return root, nil
	}
	s.pathCache.mu.RUnlock()

	s.pathCache.mu.Lock()
	defer s.pathCache.mu.Unlock()

	// Double-check: another goroutine might have initialized while waiting
	if s.pathCache.initialized {
		return s.pathCache.root, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("getting absolute working directory: %w", err)
	}

	s.pathCache.root = absCwd
	s.pathCache.initialized = true
	return absCwd, nil
}

// OutputPath derives the destination for in. A file whose extension is one
// of the source extensions gets the infix before it ("x.c" becomes
// "x.meta.c"); any other file gets the infix and default extension appended
// ("x" becomes "x.meta.c").
func OutputPath(in string, out config.OutputConfig) string {
	infix := out.Infix
	if infix == "" {
		infix = config.DefaultInfix
	}

	if HasSourceExtension(in, out.SourceExtensions) {
		ext := filepath.Ext(in)
		return strings.TrimSuffix(in, ext) + infix + ext
	}

	def := out.DefaultExtension
	if def == "" {
		def = config.DefaultExtension
	}
	return in + infix + def
}

// IsGenerated reports whether path looks like an output of OutputPath, so
// that scans and watches never feed generated files back in.
func IsGenerated(path, infix string) bool {
	if infix == "" {
		infix = config.DefaultInfix
	}
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.HasSuffix(stem, infix)
}
