package core

import "sort"

// defaultCutoffByIntent is the §4.7 cutoff table keyed by dominant intent.
var defaultCutoffByIntent = map[Intent]int{
	IntentSymbol:   20,
	IntentFlow:     15,
	IntentConcept:  60,
	IntentCode:     40,
	IntentBalanced: 40,
}

// MaxKOverride is the upper bound on query.k_override (§4.7); values above
// this are rejected as InvalidQuery by the Coordinator, not silently clamped.
const MaxKOverride = 200

// FinalRanker sorts fused candidates, applies the fixed tie-break chain,
// and truncates to the intent-resolved cutoff (§4.7).
type FinalRanker struct {
	// CutoffByIntent is the §4.7 table. Defaults to the spec's fixed
	// values; overridable for tuning/testing.
	CutoffByIntent map[Intent]int
}

// NewFinalRanker constructs a FinalRanker using the spec's default cutoffs.
func NewFinalRanker() *FinalRanker {
	table := make(map[Intent]int, len(defaultCutoffByIntent))
	for k, v := range defaultCutoffByIntent {
		table[k] = v
	}
	return &FinalRanker{CutoffByIntent: table}
}

// CutoffFor resolves K_final for a query: k_override if set and valid,
// otherwise the table entry for the dominant intent. Validity of
// k_override (1..MaxKOverride) is enforced earlier, by ValidateQuery.
func (r *FinalRanker) CutoffFor(q *Query, dominant Intent) int {
	if q != nil && q.KOverride != nil {
		return *q.KOverride
	}
	return r.CutoffByIntent[dominant]
}

// Rank sorts candidates by (final_score desc, best_rank asc, chunk_id asc),
// optionally promoting graph hits ahead of equal-scored non-graph hits when
// dominant is flow (§4.7, restricted per the Open Questions resolution in
// §9), and truncates to k.
func (r *FinalRanker) Rank(candidates []*candidate, dominant Intent, k int) []*FusedHit {
	promoteGraph := dominant == IntentFlow

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.finalScore != b.finalScore {
			return a.finalScore > b.finalScore
		}
		if promoteGraph && a.strategiesHit[StrategyGraph] != b.strategiesHit[StrategyGraph] {
			return a.strategiesHit[StrategyGraph]
		}
		if a.consensusBestRank != b.consensusBestRank {
			return a.consensusBestRank < b.consensusBestRank
		}
		return a.id < b.id
	})

	if k > 0 && len(candidates) > k {
		candidates = candidates[:k]
	}

	hits := make([]*FusedHit, 0, len(candidates))
	for _, c := range candidates {
		hit := &FusedHit{
			ChunkID:         c.id,
			BaseScore:       c.baseScore,
			FinalScore:      c.finalScore,
			StrategiesHit:   c.strategiesHit,
			BestRank:        c.consensusBestRank,
			AvgRank:         c.consensusAvgRank,
			ConsensusFactor: c.consensusFactor,
		}
		hits = append(hits, hit)
	}
	return hits
}
