package mermaid

import "sync"

// CommandCache stores resolved renderer commands keyed by the originally
// configured command string (not the resolved one). Resolution probes the
// filesystem and PATH and should not repeat across many documents, so the
// cache is typically shared process-wide. Population is idempotent: racing
// callers converge on the same entry.
type CommandCache struct {
	mu sync.Mutex
	m  map[string][]string
}

// NewCommandCache creates an empty CommandCache.
func NewCommandCache() *CommandCache {
	return &CommandCache{m: make(map[string][]string)}
}

// Get returns a copy of the cached command parts for key.
func (c *CommandCache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	parts, ok := c.m[key]
	if !ok {
		return nil, false
	}
	out := make([]string, len(parts))
	copy(out, parts)
	return out, true
}

// Put stores the resolved command parts under key.
func (c *CommandCache) Put(key string, parts []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := make([]string, len(parts))
	copy(stored, parts)
	c.m[key] = stored
}

// Len returns the number of cached entries.
func (c *CommandCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

var defaultCache = NewCommandCache()

// DefaultCache returns the process-wide command cache shared by generators
// that are not given an explicit one.
func DefaultCache() *CommandCache {
	return defaultCache
}
