package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-cerp/hmrcore/internal/core"
)

func TestGraph_Retrieve_RanksCloserSymbolsFirst(t *testing.T) {
	// Given a call graph validateSession -> checkToken -> decodeJWT
	callees := map[string][]string{
		"validateSession": {"checkToken"},
		"checkToken":      {"decodeJWT"},
	}
	symbolChunks := map[string][]core.ChunkID{
		"validateSession": {"chunk-session"},
		"checkToken":       {"chunk-token"},
		"decodeJWT":        {"chunk-jwt"},
	}
	g := NewGraph(callees, nil, nil, symbolChunks, 3)

	// When querying by the root symbol name
	result, err := g.Retrieve(context.Background(), &core.Query{Text: "validateSession"}, 10)

	// Then chunks closer in the BFS come first
	require.NoError(t, err)
	require.Len(t, result.Hits, 3)
	assert.Equal(t, core.ChunkID("chunk-session"), result.Hits[0])
	assert.Equal(t, core.ChunkID("chunk-token"), result.Hits[1])
	assert.Equal(t, core.ChunkID("chunk-jwt"), result.Hits[2])
}

func TestGraph_Retrieve_TiesBrokenByInDegree(t *testing.T) {
	// Given two symbols at equal BFS distance from the seed, one called from
	// more places (higher in-degree)
	callees := map[string][]string{
		"root": {"popular", "rare"},
	}
	callers := map[string][]string{
		"otherCaller1": {"popular"},
		"otherCaller2": {"popular"},
	}
	symbolChunks := map[string][]core.ChunkID{
		"popular": {"chunk-popular"},
		"rare":    {"chunk-rare"},
	}
	g := NewGraph(callees, callers, nil, symbolChunks, 3)

	result, err := g.Retrieve(context.Background(), &core.Query{Text: "root"}, 10)

	require.NoError(t, err)
	require.Len(t, result.Hits, 2)
	assert.Equal(t, core.ChunkID("chunk-popular"), result.Hits[0])
}

func TestGraph_Retrieve_BeyondMaxDepthIsUnreachable(t *testing.T) {
	// Given a chain longer than maxDepth
	callees := map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"d"},
	}
	symbolChunks := map[string][]core.ChunkID{
		"a": {"chunk-a"},
		"b": {"chunk-b"},
		"c": {"chunk-c"},
		"d": {"chunk-d"},
	}
	g := NewGraph(callees, nil, nil, symbolChunks, 1)

	result, err := g.Retrieve(context.Background(), &core.Query{Text: "a"}, 10)

	require.NoError(t, err)
	ids := result.Hits
	assert.Contains(t, ids, core.ChunkID("chunk-a"))
	assert.Contains(t, ids, core.ChunkID("chunk-b"))
	assert.NotContains(t, ids, core.ChunkID("chunk-c"))
	assert.NotContains(t, ids, core.ChunkID("chunk-d"))
}

func TestGraph_Retrieve_NoKnownSeedsReturnsEmpty(t *testing.T) {
	g := NewGraph(map[string][]string{"known": {"other"}}, nil, nil, nil, 3)

	result, err := g.Retrieve(context.Background(), &core.Query{Text: "totallyUnknownSymbol"}, 10)

	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestGraph_Retrieve_EmptyTextIsInvalid(t *testing.T) {
	g := NewGraph(nil, nil, nil, nil, 0)

	_, err := g.Retrieve(context.Background(), &core.Query{Text: "  "}, 10)

	require.Error(t, err)
	var ae *core.AdapterError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, core.AdapterErrInvalidQuery, ae.Kind)
}

func TestGraph_Retrieve_RespectsK(t *testing.T) {
	callees := map[string][]string{
		"root": {"s1", "s2", "s3"},
	}
	symbolChunks := map[string][]core.ChunkID{
		"s1": {"chunk-1"},
		"s2": {"chunk-2"},
		"s3": {"chunk-3"},
	}
	g := NewGraph(callees, nil, nil, symbolChunks, 3)

	result, err := g.Retrieve(context.Background(), &core.Query{Text: "root"}, 2)

	require.NoError(t, err)
	assert.Len(t, result.Hits, 2)
}

func TestGraph_Strategy_ReportsGraph(t *testing.T) {
	g := NewGraph(nil, nil, nil, nil, 0)

	assert.Equal(t, core.StrategyGraph, g.Strategy())
}

func TestGraph_ImplementsIndexAdapter(t *testing.T) {
	var _ core.IndexAdapter = (*Graph)(nil)
}
