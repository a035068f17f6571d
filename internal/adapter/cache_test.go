package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-cerp/hmrcore/internal/core"
)

// countingAdapter wraps hits behind a call counter so tests can observe
// whether a cache wrapper actually reached the inner adapter.
type countingAdapter struct {
	strategy core.Strategy
	hits     []core.ChunkID
	err      error
	calls    int
}

func (c *countingAdapter) Strategy() core.Strategy { return c.strategy }
func (c *countingAdapter) Warmup(_ context.Context) error { return nil }
func (c *countingAdapter) Retrieve(_ context.Context, _ *core.Query, _ int) (core.StrategyResult, error) {
	c.calls++
	if c.err != nil {
		return core.StrategyResult{}, c.err
	}
	return core.StrategyResult{Strategy: c.strategy, Hits: c.hits, Status: core.StatusDone}, nil
}

func TestCachedAdapter_Retrieve_CachesRepeatedQuery(t *testing.T) {
	inner := &countingAdapter{strategy: core.StrategyVector, hits: []core.ChunkID{"a", "b"}}
	cached := newCachedAdapter(inner, 0)

	query := &core.Query{Text: "find the session handler"}

	first, err := cached.Retrieve(context.Background(), query, 5)
	require.NoError(t, err)
	second, err := cached.Retrieve(context.Background(), query, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls) // second call served from cache
	assert.Equal(t, first, second)
}

func TestCachedAdapter_Retrieve_DifferentQueriesMissIndependently(t *testing.T) {
	inner := &countingAdapter{strategy: core.StrategyGraph, hits: []core.ChunkID{"x"}}
	cached := newCachedAdapter(inner, 0)

	_, err := cached.Retrieve(context.Background(), &core.Query{Text: "first query"}, 5)
	require.NoError(t, err)
	_, err = cached.Retrieve(context.Background(), &core.Query{Text: "second query"}, 5)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedAdapter_Retrieve_DifferentKMissesIndependently(t *testing.T) {
	inner := &countingAdapter{strategy: core.StrategyGraph, hits: []core.ChunkID{"x"}}
	cached := newCachedAdapter(inner, 0)

	query := &core.Query{Text: "same text"}
	_, err := cached.Retrieve(context.Background(), query, 5)
	require.NoError(t, err)
	_, err = cached.Retrieve(context.Background(), query, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedAdapter_Retrieve_ErrorsAreNotCached(t *testing.T) {
	inner := &countingAdapter{strategy: core.StrategyVector, err: assertErrSentinel{}}
	cached := newCachedAdapter(inner, 0)

	query := &core.Query{Text: "broken query"}
	_, err1 := cached.Retrieve(context.Background(), query, 5)
	_, err2 := cached.Retrieve(context.Background(), query, 5)

	require.Error(t, err1)
	require.Error(t, err2)
	assert.Equal(t, 2, inner.calls) // every call re-hits inner since nothing got cached
}

func TestCachedAdapter_Retrieve_DifferentFiltersMissIndependently(t *testing.T) {
	inner := &countingAdapter{strategy: core.StrategyVector, hits: []core.ChunkID{"a"}}
	cached := newCachedAdapter(inner, 0)

	_, err := cached.Retrieve(context.Background(), &core.Query{Text: "q", Filters: &core.Filters{Language: "go"}}, 5)
	require.NoError(t, err)
	_, err = cached.Retrieve(context.Background(), &core.Query{Text: "q", Filters: &core.Filters{Language: "python"}}, 5)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedAdapter_StrategyAndWarmup_DelegateToInner(t *testing.T) {
	inner := &countingAdapter{strategy: core.StrategySymbol}
	cached := newCachedAdapter(inner, 0)

	assert.Equal(t, core.StrategySymbol, cached.Strategy())
	assert.NoError(t, cached.Warmup(context.Background()))
}

func TestNewCachedVector_DelegatesStrategy(t *testing.T) {
	// cachedAdapter's caching behavior is exercised generically above against
	// countingAdapter; this only checks the public constructor wires Strategy()
	// through for a Vector with an empty graph (no embedder calls needed).
	cv := NewCachedVector(&Vector{}, 0)
	assert.Equal(t, core.StrategyVector, cv.Strategy())
}

func TestNewCachedGraph_WrapsAndCachesGraphResults(t *testing.T) {
	g := NewGraph(nil, nil, nil, nil, 0)
	cg := NewCachedGraph(g, 0)

	result1, err := cg.Retrieve(context.Background(), &core.Query{Text: "anything"}, 5)
	require.NoError(t, err)
	result2, err := cg.Retrieve(context.Background(), &core.Query{Text: "anything"}, 5)
	require.NoError(t, err)

	assert.Equal(t, result1, result2)
	assert.Equal(t, core.StrategyGraph, cg.Strategy())
}

func TestCachedVector_ImplementsIndexAdapter(t *testing.T) {
	var _ core.IndexAdapter = (*CachedVector)(nil)
}

func TestCachedGraph_ImplementsIndexAdapter(t *testing.T) {
	var _ core.IndexAdapter = (*CachedGraph)(nil)
}

// assertErrSentinel is a trivial error used to confirm error results are
// never written into the cache.
type assertErrSentinel struct{}

func (assertErrSentinel) Error() string { return "boom" }
