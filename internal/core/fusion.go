package core

// FusionEngine computes base_score(chunk) = Σ_s W_final[s] · rr_s(chunk),
// the only place intent weights are applied (§4.5). The teacher's RRFFusion
// played the same role for a fixed two-strategy case with a single shared
// k constant; this generalizes it to N weighted strategies with per-strategy
// constants.
type FusionEngine struct {
	// RankConstants are the per-strategy k_s values (§4.4). Defaults to the
	// spec's fixed table; overridable for tuning/testing.
	RankConstants map[Strategy]float64
}

// NewFusionEngine constructs a FusionEngine using the spec's default rank
// constants.
func NewFusionEngine() *FusionEngine {
	constants := make(map[Strategy]float64, len(defaultRankConstants))
	for k, v := range defaultRankConstants {
		constants[k] = v
	}
	return &FusionEngine{RankConstants: constants}
}

// candidate is the working state for one chunk as it moves through
// fusion, consensus, and ranking.
type candidate struct {
	id            ChunkID
	positions     map[Strategy]int
	reciprocalRR  map[Strategy]float64
	baseScore     float64
	strategiesHit map[Strategy]bool

	consensusBestRank int
	consensusAvgRank  float64
	consensusFactor   float64
	finalScore        float64
}

// Fuse computes base_score for every chunk seen by at least one strategy.
// The output is strictly non-negative (§4.5) and is returned unsorted;
// FinalRanker is responsible for ordering.
func (f *FusionEngine) Fuse(results []StrategyResult, weights StrategyWeights) []*candidate {
	positions := NormalizeResults(results)

	candidates := make([]*candidate, 0, len(positions))
	for id, posByStrategy := range positions {
		c := &candidate{
			id:            id,
			positions:     posByStrategy,
			reciprocalRR:  make(map[Strategy]float64, len(Strategies)),
			strategiesHit: make(map[Strategy]bool, len(Strategies)),
		}
		var base float64
		for _, strategy := range Strategies {
			pos, hit := posByStrategy[strategy]
			if !hit {
				continue
			}
			rr := reciprocalRank(f.RankConstants, strategy, pos)
			c.reciprocalRR[strategy] = rr
			c.strategiesHit[strategy] = true
			base += weights[strategy] * rr
		}
		c.baseScore = base
		candidates = append(candidates, c)
	}
	return candidates
}
