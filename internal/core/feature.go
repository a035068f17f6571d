package core

import (
	"context"

	"github.com/aman-cerp/hmrcore/internal/meta"
)

// sentinelPosition is the "absent" marker for a strategy that didn't hit
// a chunk (§4.8).
const sentinelPosition = -1

// FeatureEmitter produces the deterministic LTR feature vector for each
// surviving chunk (§4.8). Metadata lookups are best-effort: a missing
// provider, or a miss within it, degrades to null fields rather than
// failing the query (§6, §7 MetadataMissing).
type FeatureEmitter struct {
	Provider meta.Provider
}

// NewFeatureEmitter constructs a FeatureEmitter. Provider may be nil, in
// which case every chunk's metadata fields are null.
func NewFeatureEmitter(provider meta.Provider) *FeatureEmitter {
	return &FeatureEmitter{Provider: provider}
}

// Emit fills in hit.Feature for every hit, given the weights applied this
// query and the provider lookups (best-effort).
func (e *FeatureEmitter) Emit(ctx context.Context, hits []*FusedHit, candidates map[ChunkID]*candidate, weights StrategyWeights) {
	for _, hit := range hits {
		c := candidates[hit.ChunkID]
		fv := FeatureVector{
			Position:     make(map[Strategy]int, len(Strategies)),
			ReciprocalRR: make(map[Strategy]float64, len(Strategies)),
			Weights:      make(map[Strategy]float64, len(Strategies)),
			M:            len(hit.StrategiesHit),
			BestRank:     hit.BestRank,
			AvgRank:      hit.AvgRank,
			Consensus:    hit.ConsensusFactor,
			PathDepth:    sentinelPosition,
			TokenSize:    sentinelPosition,
		}
		for _, strategy := range Strategies {
			if pos, ok := c.positions[strategy]; ok {
				fv.Position[strategy] = pos
				fv.ReciprocalRR[strategy] = c.reciprocalRR[strategy]
			} else {
				fv.Position[strategy] = sentinelPosition
			}
			fv.Weights[strategy] = weights[strategy]
		}

		if e.Provider != nil {
			if m, ok, err := e.Provider.GetMeta(ctx, meta.ChunkID(hit.ChunkID)); err == nil && ok {
				fv.Kind = m.Kind
				fv.PathDepth = m.PathDepth
				fv.TokenSize = m.TokenSize
			}
		}

		hit.Feature = fv
	}
}
