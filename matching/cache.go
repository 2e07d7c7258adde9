// Package matching: the bounded LRU solve cache, keyed by the penalized
// matrix's content hash. At most one Hungarian computation per unique
// penalized matrix; subsequent identical matrices return the cached pairs
// without re-solving.

package matching

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/katalvlaran/assign/hungarian"
)

// solveCache wraps an LRU of content-hash → assignment pairs.
// Not goroutine-safe by itself; the Matcher serializes access.
type solveCache struct {
	entries *lru.Cache[uint64, []hungarian.Pair]
	hits    uint64
	misses  uint64
}

// newSolveCache builds a cache bounded at size entries (size is validated
// by the options layer, so lru.New cannot fail on it).
func newSolveCache(size int) (*solveCache, error) {
	entries, err := lru.New[uint64, []hungarian.Pair](size)
	if err != nil {
		return nil, err
	}

	return &solveCache{entries: entries}, nil
}

// get returns a copy of the cached pairs for hash, if present. The copy
// keeps cached entries immutable even if the caller mutates the result.
func (c *solveCache) get(hash uint64) ([]hungarian.Pair, bool) {
	pairs, ok := c.entries.Get(hash)
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++

	out := make([]hungarian.Pair, len(pairs))
	copy(out, pairs)

	return out, true
}

// add stores a defensive copy of pairs under hash.
func (c *solveCache) add(hash uint64, pairs []hungarian.Pair) {
	stored := make([]hungarian.Pair, len(pairs))
	copy(stored, pairs)
	c.entries.Add(hash, stored)
}

// purge drops all entries; hit/miss counters survive (they describe the
// matcher's lifetime, not the cache generation).
func (c *solveCache) purge() { c.entries.Purge() }

// len returns the number of cached matrices.
func (c *solveCache) len() int { return c.entries.Len() }
