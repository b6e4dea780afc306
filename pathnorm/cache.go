package pathnorm

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// cachedResult pairs a Normalize outcome so both the value and the error
// can be cached together; lru.Cache stores one value per key.
type cachedResult struct {
	path CanonicalPath
	err  error
}

// CachingNormalizer wraps Normalize with a bounded LRU cache keyed on the
// raw input string, since path normalization sits on the hot path of
// every tool call (original_source's winpath/src/cache.rs). Caching never
// changes an observable result — Normalize is pure, so a cache hit and a
// cache miss always agree — it only avoids repeating the dialect-detect
// and component-resolution work for a path the caller has already
// normalized once.
type CachingNormalizer struct {
	cache *lru.Cache[string, cachedResult]
}

// NewCachingNormalizer builds a CachingNormalizer holding at most size
// entries, evicting the least recently used on overflow. size must be
// positive.
func NewCachingNormalizer(size int) (*CachingNormalizer, error) {
	cache, err := lru.New[string, cachedResult](size)
	if err != nil {
		return nil, err
	}
	return &CachingNormalizer{cache: cache}, nil
}

// Normalize returns Normalize(input), served from cache when input has
// been seen before.
func (c *CachingNormalizer) Normalize(input string) (CanonicalPath, error) {
	if result, ok := c.cache.Get(input); ok {
		return result.path, result.err
	}
	path, err := Normalize(input)
	c.cache.Add(input, cachedResult{path: path, err: err})
	return path, err
}

// Len reports the number of entries currently cached.
func (c *CachingNormalizer) Len() int {
	return c.cache.Len()
}

// Purge discards every cached entry.
func (c *CachingNormalizer) Purge() {
	c.cache.Purge()
}
