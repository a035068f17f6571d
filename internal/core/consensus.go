package core

import "math"

// defaultConsensusBeta is β in consensus_raw = 1 + β·(√M − 1) (§4.6).
const defaultConsensusBeta = 0.3

// ConsensusBooster multiplies each chunk's base_score by a factor derived
// from how many strategies returned it and their average rank (§4.6).
type ConsensusBooster struct {
	// Beta is β above. Defaults to 0.3; overridable for tuning/testing.
	Beta float64
}

// NewConsensusBooster constructs a ConsensusBooster using the spec's
// default β.
func NewConsensusBooster() *ConsensusBooster {
	return &ConsensusBooster{Beta: defaultConsensusBeta}
}

// Apply computes best_rank, avg_rank, and consensus_factor for c and sets
// final_score = base_score * consensus_factor, returning the factor.
func (cb *ConsensusBooster) Apply(c *candidate) float64 {
	m := len(c.positions)
	if m == 0 {
		return 0
	}

	bestRank := math.MaxInt32
	var sumRank float64
	for _, pos := range c.positions {
		if pos < bestRank {
			bestRank = pos
		}
		sumRank += float64(pos)
	}
	avgRank := sumRank / float64(m)

	beta := cb.Beta
	if beta == 0 {
		beta = defaultConsensusBeta
	}
	qualityFactor := 1.0 / (1.0 + avgRank/10.0)
	consensusRaw := 1.0 + beta*(math.Sqrt(float64(m))-1.0)
	consensusCapped := math.Min(1.5, consensusRaw)
	factor := consensusCapped * (0.5 + 0.5*qualityFactor)

	return finalize(c, bestRank, avgRank, factor)
}

func finalize(c *candidate, bestRank int, avgRank, factor float64) float64 {
	c.consensusBestRank = bestRank
	c.consensusAvgRank = avgRank
	c.consensusFactor = factor
	c.finalScore = c.baseScore * factor
	return factor
}
