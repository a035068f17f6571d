package core

// defaultBaseProfile is the fixed per-intent base weight vector over
// strategies (§4.3). Rows sum to 1.
var defaultBaseProfile = map[Intent]StrategyWeights{
	IntentCode: {
		StrategyVector: 0.50, StrategyLexical: 0.30, StrategySymbol: 0.10, StrategyGraph: 0.10,
	},
	IntentSymbol: {
		StrategyVector: 0.20, StrategyLexical: 0.20, StrategySymbol: 0.50, StrategyGraph: 0.10,
	},
	IntentFlow: {
		StrategyVector: 0.20, StrategyLexical: 0.10, StrategySymbol: 0.20, StrategyGraph: 0.50,
	},
	IntentConcept: {
		StrategyVector: 0.70, StrategyLexical: 0.20, StrategySymbol: 0.05, StrategyGraph: 0.05,
	},
	IntentBalanced: {
		StrategyVector: 0.40, StrategyLexical: 0.30, StrategySymbol: 0.20, StrategyGraph: 0.10,
	},
}

// WeightResolver combines an intent distribution with the base profile
// matrix into a normalized per-strategy weight vector (§4.3).
type WeightResolver struct {
	// BaseProfile is the per-intent row matrix. Defaults to the spec's
	// fixed table; overridable for tuning/testing.
	BaseProfile map[Intent]StrategyWeights
}

// NewWeightResolver constructs a WeightResolver using the spec's default
// base profile matrix.
func NewWeightResolver() *WeightResolver {
	profile := make(map[Intent]StrategyWeights, len(defaultBaseProfile))
	for intent, row := range defaultBaseProfile {
		clone := make(StrategyWeights, len(row))
		for s, w := range row {
			clone[s] = w
		}
		profile[intent] = clone
	}
	return &WeightResolver{BaseProfile: profile}
}

// Resolve computes W_final[s] = Σ_i p_intent[i] · W_i[s], renormalized to
// sum to 1.
//
// Available restricts the resolution to strategies that actually produced a
// result this query (Scenario 5: a failed strategy's weight must not linger
// as dead mass — the remaining weights are renormalized over what's left,
// which is equivalent to treating the missing strategy's contribution as
// zero once RankNormalizer also zeroes its reciprocal-rank term).
func (r *WeightResolver) Resolve(dist IntentDistribution, available map[Strategy]bool) StrategyWeights {
	raw := make(StrategyWeights, len(Strategies))
	var total float64
	for _, strategy := range Strategies {
		if available != nil && !available[strategy] {
			continue
		}
		var w float64
		for _, intent := range Intents {
			w += dist[intent] * r.BaseProfile[intent][strategy]
		}
		raw[strategy] = w
		total += w
	}

	final := make(StrategyWeights, len(Strategies))
	if total <= 0 {
		// All candidate strategies carry zero base weight (degenerate
		// profile edge case) — fall back to a uniform split so the
		// invariant Σ W_final[s] = 1 still holds.
		n := float64(len(raw))
		if n == 0 {
			return final
		}
		for strategy := range raw {
			final[strategy] = 1.0 / n
		}
		return final
	}
	for strategy, w := range raw {
		final[strategy] = w / total
	}
	return final
}
