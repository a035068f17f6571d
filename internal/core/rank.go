package core

// defaultRankConstants holds the strategy-specific k_s from §4.4. Smaller
// constants for symbol and graph make their top ranks contribute more
// heavily when those strategies "know" the answer. Overridable per
// FusionEngine instance for tuning/testing (§5 CONCURRENCY & RESOURCE MODEL
// notwithstanding, these are pure constants, not shared mutable state).
var defaultRankConstants = map[Strategy]float64{
	StrategyVector:  70,
	StrategyLexical: 70,
	StrategySymbol:  50,
	StrategyGraph:   50,
}

// reciprocalRank converts a 1-based position into the reciprocal-rank
// contribution rr_s(chunk) = 1 / (k_s + position) using the given constants.
// Position <= 0 (no hit) yields 0.
func reciprocalRank(constants map[Strategy]float64, strategy Strategy, position int) float64 {
	if position <= 0 {
		return 0
	}
	return 1.0 / (constants[strategy] + float64(position))
}

// NormalizeResults converts the raw per-strategy hit lists into per-chunk
// maps of 1-based position per strategy, the input FusionEngine consumes;
// reciprocal-rank values are computed later by reciprocalRank.
func NormalizeResults(results []StrategyResult) map[ChunkID]map[Strategy]int {
	positions := make(map[ChunkID]map[Strategy]int)
	for _, result := range results {
		for i, id := range result.Hits {
			if positions[id] == nil {
				positions[id] = make(map[Strategy]int, len(Strategies))
			}
			positions[id][result.Strategy] = i + 1
		}
	}
	return positions
}
