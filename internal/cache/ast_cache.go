// Package cache provides the per-analyzer-instance caches described in the
// design notes: an analyzer's parsed ASTs and symbol tables are never
// shared across files or goroutines, so each worker owns its own cache.
// Grounded on the teacher's hand-rolled LRU
// (graph/callgraph/resolution/type_cache.go); reimplemented on top of
// hashicorp/golang-lru/v2 instead of a bespoke container/list
// implementation, since the dependency is already part of the example
// pack's ecosystem and removes the hand-rolled eviction bookkeeping.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tainthound/jsflow/internal/astfacade"
)

// DefaultCapacity bounds how many parsed files a single analyzer instance
// keeps resident at once.
const DefaultCapacity = 256

// ASTCache holds parsed files for a single analyzer instance. It is not
// safe for concurrent use by multiple goroutines — callers that fan out
// per-file work must give each worker its own ASTCache, matching the
// "analyzer instances own their AST cache" resource policy.
type ASTCache struct {
	files *lru.Cache[string, *astfacade.File]
}

// New creates an ASTCache with the given capacity. A non-positive capacity
// falls back to DefaultCapacity.
func New(capacity int) *ASTCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c, err := lru.New[string, *astfacade.File](capacity)
	if err != nil {
		// lru.New only errors on a non-positive size, which we've already
		// guarded against above.
		c, _ = lru.New[string, *astfacade.File](DefaultCapacity)
	}
	return &ASTCache{files: c}
}

// Get returns a previously cached parse for fileName, if present.
func (c *ASTCache) Get(fileName string) (*astfacade.File, bool) {
	return c.files.Get(fileName)
}

// Put stores a parsed file, evicting the least-recently-used entry if the
// cache is at capacity.
func (c *ASTCache) Put(fileName string, f *astfacade.File) {
	c.files.Add(fileName, f)
}

// Len reports the number of files currently cached.
func (c *ASTCache) Len() int {
	return c.files.Len()
}
