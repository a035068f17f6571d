package adapter

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/coder/hnsw"

	"github.com/aman-cerp/hmrcore/internal/core"
	"github.com/aman-cerp/hmrcore/internal/embed"
)

// Vector is the embedding/ANN IndexAdapter (§4.1 "Vector"), grounded on the
// teacher's HNSWStore: the same github.com/coder/hnsw pure-Go graph, stripped
// of the on-disk Save/Load/gob metadata machinery HMR-Core's stateless
// per-query contract has no use for. Query text is turned into a vector via
// an embed.Embedder before searching the graph.
type Vector struct {
	mu       sync.RWMutex
	graph    *hnsw.Graph[uint64]
	embedder embed.Embedder

	idMap  map[core.ChunkID]uint64
	keyMap map[uint64]core.ChunkID
	next   uint64
}

// NewVector builds an in-memory HNSW index over the given chunk texts,
// embedding each with embedder. M=16 and EfSearch=20 match the teacher's
// defaults for coder/hnsw.
func NewVector(ctx context.Context, embedder embed.Embedder, documents map[core.ChunkID]string) (*Vector, error) {
	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = 16
	graph.EfSearch = 20
	graph.Ml = 0.25

	v := &Vector{
		graph:    graph,
		embedder: embedder,
		idMap:    make(map[core.ChunkID]uint64, len(documents)),
		keyMap:   make(map[uint64]core.ChunkID, len(documents)),
	}

	for id, text := range documents {
		vec, err := embedder.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %s: %w", id, err)
		}
		normalizeInPlace(vec)
		key := v.next
		v.next++
		v.graph.Add(hnsw.MakeNode(key, vec))
		v.idMap[id] = key
		v.keyMap[key] = id
	}
	return v, nil
}

// Strategy implements core.IndexAdapter.
func (v *Vector) Strategy() core.Strategy { return core.StrategyVector }

// Warmup implements core.IndexAdapter. coder/hnsw needs no explicit warmup
// once constructed; embedder readiness is checked here so a cold embedder
// backend surfaces as StrategyUnavailable before the hot path.
func (v *Vector) Warmup(ctx context.Context) error {
	if !v.embedder.Available(ctx) {
		return &core.AdapterError{Kind: core.AdapterErrUnavailable, Message: "embedder not available"}
	}
	return nil
}

// Retrieve implements core.IndexAdapter.
func (v *Vector) Retrieve(ctx context.Context, query *core.Query, k int) (core.StrategyResult, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.graph.Len() == 0 {
		return core.StrategyResult{}, nil
	}

	queryVector, err := v.embedder.Embed(ctx, query.Text)
	if err != nil {
		return core.StrategyResult{}, &core.AdapterError{Kind: core.AdapterErrInvalidQuery, Message: err.Error()}
	}
	if ctx.Err() != nil {
		return core.StrategyResult{}, &core.AdapterError{Kind: core.AdapterErrTimeout, Message: ctx.Err().Error()}
	}
	normalizeInPlace(queryVector)

	nodes := v.graph.Search(queryVector, k)
	hits := make([]core.ChunkID, 0, len(nodes))
	for _, node := range nodes {
		id, ok := v.keyMap[node.Key]
		if !ok {
			continue
		}
		hits = append(hits, id)
	}
	return core.StrategyResult{Hits: hits}, nil
}

func normalizeInPlace(v []float32) {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	if sumSquares == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sumSquares))
	for i := range v {
		v[i] *= inv
	}
}
