package memory

import (
	"context"
	"errors"
	"sync"
)

// ErrNilSource is returned when the cache is built without a backing source.
var ErrNilSource = errors.New("solution memory: nil source")

// Source reads the lines of a solution file.
type Source interface {
	ReadLines(ctx context.Context, path string) ([]string, error)
}

// LineCache keeps the lines of every file read through it so that several
// variables of one dump are parsed from a single read. Failed reads are not
// cached.
type LineCache struct {
	source Source

	mu    sync.RWMutex
	files map[string][]string
}

// NewLineCache wraps source.
func NewLineCache(source Source) (*LineCache, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	return &LineCache{
		source: source,
		files:  make(map[string][]string),
	}, nil
}

// ReadLines returns the cached lines of path, reading them on first use.
// Callers must not modify the returned slice.
func (c *LineCache) ReadLines(ctx context.Context, path string) ([]string, error) {
	c.mu.RLock()
	lines, ok := c.files[path]
	c.mu.RUnlock()
	if ok {
		return lines, nil
	}

	lines, err := c.source.ReadLines(ctx, path)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.files[path] = lines
	c.mu.Unlock()
	return lines, nil
}

// Forget drops path from the cache.
func (c *LineCache) Forget(path string) {
	c.mu.Lock()
	delete(c.files, path)
	c.mu.Unlock()
}

// Len returns the number of cached files.
func (c *LineCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}
