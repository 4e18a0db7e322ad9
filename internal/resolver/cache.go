package resolver

import (
	"time"

	"github.com/jmylchreest/backdrop/internal/scene"
)

// DefaultCacheTTL is how long cached resolution state survives before the
// next access clears it wholesale.
const DefaultCacheTTL = 5 * time.Second

// Cache memoises the expensive half of a resolution: the intersection walk
// and the selected node's captured ancestor chain. It is purely a
// performance optimisation; a stale entry whose nodes have left the host
// graph is detected by the resolver and treated as a miss.
//
// The cache holds the only mutable state in the package. It assumes a
// single logical caller (one live selection at a time) and carries no
// locking beyond the clear-on-selection-change discipline.
type Cache struct {
	ttl   time.Duration
	now   func() time.Time
	reset time.Time

	selection string
	sets      map[string]*IntersectionSet
	chains    map[string]*scene.Snapshot
}

// NewCache creates a cache with the given TTL. A non-positive TTL uses
// DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &Cache{
		ttl: ttl,
		now: time.Now,
	}
	c.clear()
	return c
}

// NoteSelection records the active selection, eagerly clearing all cached
// state when it changed.
func (c *Cache) NoteSelection(id string) {
	if id != c.selection {
		c.clear()
		c.selection = id
	}
}

// IntersectionSet returns the cached intersection set for a node, if fresh.
func (c *Cache) IntersectionSet(id string) (*IntersectionSet, bool) {
	c.expire()
	set, ok := c.sets[id]
	return set, ok
}

// StoreIntersectionSet caches the intersection set for a node.
func (c *Cache) StoreIntersectionSet(id string, set *IntersectionSet) {
	c.expire()
	c.sets[id] = set
}

// Chain returns the cached captured ancestor chain for a node, if fresh.
func (c *Cache) Chain(id string) (*scene.Snapshot, bool) {
	c.expire()
	chain, ok := c.chains[id]
	return chain, ok
}

// StoreChain caches a node's captured ancestor chain.
func (c *Cache) StoreChain(id string, chain *scene.Snapshot) {
	c.expire()
	c.chains[id] = chain
}

// Clear drops all cached state.
func (c *Cache) Clear() {
	c.clear()
}

// expire clears everything once the TTL since the last reset has elapsed.
// Invalidation is wholesale rather than per-entry.
func (c *Cache) expire() {
	if c.now().Sub(c.reset) > c.ttl {
		c.clear()
	}
}

func (c *Cache) clear() {
	c.sets = make(map[string]*IntersectionSet)
	c.chains = make(map[string]*scene.Snapshot)
	if c.now != nil {
		c.reset = c.now()
	}
}
