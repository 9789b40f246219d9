package fetch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of files kept by NewCached when no size is configured
const DefaultCacheSize = 256

var ErrNotFound = errors.New("file not found")

// ============================================================================
// Fetcher Interface
// ============================================================================

// Fetcher reads the raw text of a path relative to the document being
// resolved. Paths always use forward slashes.
type Fetcher interface {
	Fetch(path string) (string, error)
}

// Func adapts a plain function to Fetcher
type Func func(path string) (string, error)

// Fetch calls f
func (f Func) Fetch(path string) (string, error) {
	return f(path)
}

// Rebase returns a fetcher resolving paths against dir before handing them to f
func Rebase(f Fetcher, dir string) Fetcher {
	if dir == "" || dir == "." {
		return f
	}
	return Func(func(p string) (string, error) {
		return f.Fetch(path.Join(dir, p))
	})
}

// ============================================================================
// File System
// ============================================================================

// OS reads files from disk
type OS struct{}

// Fetch reads the file at p
func (OS) Fetch(p string) (string, error) {
	data, err := os.ReadFile(filepath.FromSlash(p))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", p, err)
	}
	return string(data), nil
}

// Memory serves files from a map, keyed by cleaned slash path
type Memory map[string]string

// Fetch looks p up in the map
func (m Memory) Fetch(p string) (string, error) {
	content, ok := m[path.Clean(p)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return content, nil
}

// ============================================================================
// Cache
// ============================================================================

// Cached keeps recently read files in memory. A file included from
// several documents is only read once per run.
type Cached struct {
	next   Fetcher
	cache  *lru.Cache[string, string]
	logger *log.Logger
}

// NewCached wraps next with an LRU cache of size entries
func NewCached(next Fetcher, size int, logger *log.Logger) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cached{next: next, cache: cache, logger: logger}, nil
}

// Fetch returns the cached content of p, reading it on a miss. Failed
// reads are not cached.
func (c *Cached) Fetch(p string) (string, error) {
	key := path.Clean(p)
	if content, ok := c.cache.Get(key); ok {
		c.logger.Debug("cache hit", "path", key)
		return content, nil
	}

	content, err := c.next.Fetch(key)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, content)
	return content, nil
}

// Len returns the number of cached files
func (c *Cached) Len() int {
	return c.cache.Len()
}

// Purge drops every cached file
func (c *Cached) Purge() {
	c.cache.Purge()
}
