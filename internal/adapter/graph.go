package adapter

import (
	"context"
	"sort"
	"strings"

	"github.com/aman-cerp/hmrcore/internal/core"
)

// Graph is the call/import-graph IndexAdapter (§4.1 "Graph"), grounded on
// the graph-fusion precedent in the pack's hybrid search engines: instead of
// a property-graph store it holds a plain in-memory adjacency map (callers,
// callees, imports) and ranks chunks by bounded BFS distance from symbols
// named in the query text, breaking ties by in-degree.
type Graph struct {
	edges        map[string][]string
	symbolChunks map[string][]core.ChunkID
	inDegree     map[string]int
	maxDepth     int
}

// NewGraph builds the adjacency map from three edge kinds. callees[s] lists
// symbols s calls; callers[s] lists symbols that call s; imports[s] lists
// modules/packages s imports. symbolChunks maps a symbol name to the chunk
// ids that define or reference it. maxDepth bounds the BFS (0 defaults to 3).
func NewGraph(callees, callers, imports map[string][]string, symbolChunks map[string][]core.ChunkID, maxDepth int) *Graph {
	if maxDepth <= 0 {
		maxDepth = 3
	}
	edges := make(map[string][]string)
	inDegree := make(map[string]int)
	merge := func(from map[string][]string) {
		for src, dsts := range from {
			edges[src] = append(edges[src], dsts...)
			for _, dst := range dsts {
				inDegree[dst]++
			}
		}
	}
	merge(callees)
	merge(callers)
	merge(imports)
	return &Graph{
		edges:        edges,
		symbolChunks: symbolChunks,
		inDegree:     inDegree,
		maxDepth:     maxDepth,
	}
}

// Strategy implements core.IndexAdapter.
func (g *Graph) Strategy() core.Strategy { return core.StrategyGraph }

// Warmup implements core.IndexAdapter.
func (g *Graph) Warmup(_ context.Context) error { return nil }

// Retrieve implements core.IndexAdapter.
func (g *Graph) Retrieve(ctx context.Context, query *core.Query, k int) (core.StrategyResult, error) {
	text := strings.TrimSpace(query.Text)
	if text == "" {
		return core.StrategyResult{}, &core.AdapterError{Kind: core.AdapterErrInvalidQuery, Message: "empty query text"}
	}
	if ctx.Err() != nil {
		return core.StrategyResult{}, &core.AdapterError{Kind: core.AdapterErrTimeout, Message: ctx.Err().Error()}
	}

	seeds := g.extractSeeds(text)
	if len(seeds) == 0 {
		return core.StrategyResult{}, nil
	}

	distance := g.bfs(seeds)
	if len(distance) == 0 {
		return core.StrategyResult{}, nil
	}

	type ranked struct {
		id       core.ChunkID
		distance int
		inDegree int
	}
	chunkBest := make(map[core.ChunkID]ranked)
	for symbol, d := range distance {
		for _, id := range g.symbolChunks[symbol] {
			deg := g.inDegree[symbol]
			if existing, ok := chunkBest[id]; !ok || d < existing.distance || (d == existing.distance && deg > existing.inDegree) {
				chunkBest[id] = ranked{id: id, distance: d, inDegree: deg}
			}
		}
	}

	all := make([]ranked, 0, len(chunkBest))
	for _, r := range chunkBest {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].distance != all[j].distance {
			return all[i].distance < all[j].distance
		}
		if all[i].inDegree != all[j].inDegree {
			return all[i].inDegree > all[j].inDegree
		}
		return all[i].id < all[j].id
	})
	if len(all) > k {
		all = all[:k]
	}

	hits := make([]core.ChunkID, 0, len(all))
	for _, r := range all {
		hits = append(hits, r.id)
	}
	return core.StrategyResult{Hits: hits}, nil
}

// extractSeeds picks symbol-shaped tokens out of free-form query text: the
// same camelCase/snake_case/punctuation-aware split the lexical adapter's
// tokenizer uses, restricted to tokens that appear as a known symbol name.
func (g *Graph) extractSeeds(text string) []string {
	var seeds []string
	seen := make(map[string]bool)
	for _, word := range tokenRegex.FindAllString(text, -1) {
		if _, known := g.edges[word]; known && !seen[word] {
			seeds = append(seeds, word)
			seen[word] = true
		}
		for _, part := range splitCodeToken(word) {
			if _, known := g.edges[part]; known && !seen[part] {
				seeds = append(seeds, part)
				seen[part] = true
			}
		}
	}
	return seeds
}

// bfs returns, for every symbol reachable from seeds within g.maxDepth hops,
// the shortest distance found. Seeds start at distance 0.
func (g *Graph) bfs(seeds []string) map[string]int {
	distance := make(map[string]int, len(seeds))
	queue := make([]string, 0, len(seeds))
	for _, s := range seeds {
		distance[s] = 0
		queue = append(queue, s)
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		d := distance[current]
		if d >= g.maxDepth {
			continue
		}
		for _, next := range g.edges[current] {
			if _, visited := distance[next]; !visited {
				distance[next] = d + 1
				queue = append(queue, next)
			}
		}
	}
	return distance
}
