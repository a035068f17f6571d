package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aman-cerp/hmrcore/internal/core"
)

// defaultCacheSize mirrors the teacher's CachedEmbedder default.
const defaultCacheSize = 1000

// cachedAdapter wraps any core.IndexAdapter with LRU caching of
// (query text, filters, k) -> StrategyResult, grounded on the teacher's
// CachedEmbedder. Exposed via the named constructors below, matching the
// expanded spec's "optional hot caches" for the Vector and Graph adapters,
// whose per-query cost (embedding, BFS) is higher than the lexical/symbol
// adapters' index lookups.
type cachedAdapter struct {
	inner core.IndexAdapter
	cache *lru.Cache[string, core.StrategyResult]
}

func newCachedAdapter(inner core.IndexAdapter, cacheSize int) *cachedAdapter {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, _ := lru.New[string, core.StrategyResult](cacheSize)
	return &cachedAdapter{inner: inner, cache: cache}
}

func (c *cachedAdapter) Strategy() core.Strategy { return c.inner.Strategy() }

func (c *cachedAdapter) Warmup(ctx context.Context) error { return c.inner.Warmup(ctx) }

func (c *cachedAdapter) Retrieve(ctx context.Context, query *core.Query, k int) (core.StrategyResult, error) {
	key := cacheKey(query, k)
	if result, ok := c.cache.Get(key); ok {
		return result, nil
	}
	result, err := c.inner.Retrieve(ctx, query, k)
	if err != nil {
		return result, err
	}
	c.cache.Add(key, result)
	return result, nil
}

func cacheKey(query *core.Query, k int) string {
	var filters string
	if query.Filters != nil {
		filters = fmt.Sprintf("%s|%s|%s", query.Filters.Language, query.Filters.FilePathPrefix, query.Filters.Kind)
	}
	combined := fmt.Sprintf("%s\x00%s\x00%d", query.Text, filters, k)
	hash := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(hash[:])
}

// CachedVector wraps a Vector adapter with LRU caching of query results,
// avoiding redundant embed-and-search work for repeated queries.
type CachedVector struct{ *cachedAdapter }

// NewCachedVector wraps inner with an LRU cache of the given size (0 = default).
func NewCachedVector(inner *Vector, cacheSize int) *CachedVector {
	return &CachedVector{cachedAdapter: newCachedAdapter(inner, cacheSize)}
}

// CachedGraph wraps a Graph adapter with LRU caching of query results,
// avoiding redundant BFS traversal for repeated queries.
type CachedGraph struct{ *cachedAdapter }

// NewCachedGraph wraps inner with an LRU cache of the given size (0 = default).
func NewCachedGraph(inner *Graph, cacheSize int) *CachedGraph {
	return &CachedGraph{cachedAdapter: newCachedAdapter(inner, cacheSize)}
}

var (
	_ core.IndexAdapter = (*CachedVector)(nil)
	_ core.IndexAdapter = (*CachedGraph)(nil)
)
