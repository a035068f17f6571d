package core

import (
	"log/slog"
	"time"
)

// CoreConfig holds the tunable constants of the pipeline (§4, §5), mirroring
// the teacher's EngineConfig/DefaultConfig functional-options pattern.
type CoreConfig struct {
	// TotalDeadline is T_total, the per-query deadline (§4.9). Default 1s.
	TotalDeadline time.Duration

	// StrategyDeadline is T_s, the per-strategy soft deadline (§4.9).
	// Default 400ms.
	StrategyDeadline time.Duration

	// MaxConcurrentQueries is the backpressure ceiling (§5); queries above
	// it are rejected with Overloaded rather than queued. 0 means
	// unbounded.
	MaxConcurrentQueries int

	// ScoringVersion tags the constants in §4 for diagnostics (§6
	// Versioning).
	ScoringVersion string
}

// DefaultCoreConfig returns the spec's default constants.
func DefaultCoreConfig() CoreConfig {
	return CoreConfig{
		TotalDeadline:        1 * time.Second,
		StrategyDeadline:     400 * time.Millisecond,
		MaxConcurrentQueries: 64,
		ScoringVersion:       "hmr-core-v1",
	}
}

// perStrategyK computes k_s = 3*K_final, floored at 50 and ceilinged at 300
// (§4.9 "Per-strategy K").
func perStrategyK(kFinal int) int {
	k := 3 * kFinal
	if k < 50 {
		return 50
	}
	if k > 300 {
		return 300
	}
	return k
}

// CoordinatorOption configures a Coordinator at construction time.
type CoordinatorOption func(*Coordinator)

// WithConfig overrides the default CoreConfig.
func WithConfig(cfg CoreConfig) CoordinatorOption {
	return func(c *Coordinator) { c.config = cfg }
}

// WithClassifier overrides the default SoftmaxClassifier.
func WithClassifier(classifier Classifier) CoordinatorOption {
	return func(c *Coordinator) { c.classifier = classifier }
}

// WithWeightResolver overrides the default WeightResolver.
func WithWeightResolver(r *WeightResolver) CoordinatorOption {
	return func(c *Coordinator) { c.weightResolver = r }
}

// WithFusionEngine overrides the default FusionEngine (e.g. to apply
// configured per-strategy rank constants).
func WithFusionEngine(f *FusionEngine) CoordinatorOption {
	return func(c *Coordinator) { c.fusionEngine = f }
}

// WithConsensusBooster overrides the default ConsensusBooster.
func WithConsensusBooster(b *ConsensusBooster) CoordinatorOption {
	return func(c *Coordinator) { c.consensusBooster = b }
}

// WithFinalRanker overrides the default FinalRanker.
func WithFinalRanker(r *FinalRanker) CoordinatorOption {
	return func(c *Coordinator) { c.finalRanker = r }
}

// WithFeatureEmitter overrides the default FeatureEmitter (nil provider).
func WithFeatureEmitter(e *FeatureEmitter) CoordinatorOption {
	return func(c *Coordinator) { c.featureEmitter = e }
}

// WithLogger overrides the default slog.Default().
func WithLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.logger = logger }
}

// WithLexicalExpander installs an optional query-expansion hook applied
// only to the text passed to the Lexical adapter (SPEC_FULL §11):
// "BM25 matches exact keywords, so synonyms help; embedding models handle
// semantic similarity natively." Vector/Symbol/Graph always receive the
// original text; this does not change any §4 scoring semantics.
func WithLexicalExpander(expand func(string) string) CoordinatorOption {
	return func(c *Coordinator) { c.lexicalExpander = expand }
}

// WithDiagnosticsSink installs a sink that receives one Record per query.
func WithDiagnosticsSink(sink DiagnosticsSink) CoordinatorOption {
	return func(c *Coordinator) { c.sink = sink }
}
