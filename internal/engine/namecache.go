package engine

import (
	"strings"
	"sync"

	"github.com/pathkv/pathkv/internal/path"
)

// nameCache is a small child-name cache: a bounded map from a node's path
// to its direct-child segment names, used to skip a cursor pass on
// repeated List/Exists calls against hot interior paths. A write at a
// path invalidates that path's entry, every descendant's entry, and every
// ancestor's entry (see invalidate).
type nameCache struct {
	mu       sync.Mutex
	entries  map[string][]string
	capacity int
}

func newNameCache(capacity int) *nameCache {
	return &nameCache{entries: make(map[string][]string), capacity: capacity}
}

func (c *nameCache) get(p path.Path) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	names, ok := c.entries[p.String()]
	return names, ok
}

func (c *nameCache) put(p path.Path, names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.capacity {
		// Cheap unbounded-growth guard: drop everything rather than
		// maintain LRU recency bookkeeping for a cache that exists only
		// to skip an occasional cursor scan.
		c.entries = make(map[string][]string)
	}
	c.entries[p.String()] = names
}

// invalidate drops the cache entry for p, for every descendant of p (a
// write at p can replace or remove the whole subtree below it), and for
// every ancestor of p up to the root, since a write at p can create or
// remove any intermediate node along that chain, changing what each
// ancestor would list as its own direct children.
func (c *nameCache) invalidate(p path.Path) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, p.String())
	prefix := path.ChildPrefix(p)
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	for {
		parent, ok := path.Parent(p)
		if !ok {
			return
		}
		delete(c.entries, parent.String())
		p = parent
	}
}
