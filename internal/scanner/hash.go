package scanner

import (
	"hash/crc32"
	"sync"
)

// hashCache remembers the CRC32 of each input's last successful run.
type hashCache struct {
	mu     sync.RWMutex
	hashes map[string]uint32
}

func newHashCache() *hashCache {
	return &hashCache{hashes: make(map[string]uint32)}
}

// changed reports whether content differs from what was last stored for path.
func (c *hashCache) changed(path string, content []byte) bool {
	sum := crc32.ChecksumIEEE(content)

	c.mu.RLock()
	defer c.mu.RUnlock()

	prev, ok := c.hashes[path]
	return !ok || prev != sum
}

func (c *hashCache) store(path string, content []byte) {
	sum := crc32.ChecksumIEEE(content)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.hashes[path] = sum
}

// Forget drops the stored hash of path so its next run is not skipped.
func (s *FileScanner) Forget(path string) {
	s.hashes.mu.Lock()
	defer s.hashes.mu.Unlock()
	delete(s.hashes.hashes, path)
}
