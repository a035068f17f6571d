package core

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aman-cerp/hmrcore/internal/hmrerrors"
	"github.com/aman-cerp/hmrcore/internal/logging"
)

// SearchResponse is the top-level output of a single Search call (§6
// "Primary request"): the ordered fused hits plus the diagnostics record.
type SearchResponse struct {
	Hits        []*FusedHit
	Diagnostics DiagnosticsRecord
}

// Coordinator is C9: end-to-end orchestration of parallel index fan-out,
// timeouts, cancellation, error aggregation, and result assembly. It is the
// only component that suspends (§5 "Suspension points") — everything it
// calls downstream (C4-C8) is CPU-bound.
//
// Grounded on the teacher's Engine.Search/parallelSearch: an errgroup fan-out
// with graceful degradation on partial backend failure, generalized from two
// backends to four and from a single weight pair to the full intent-mix.
type Coordinator struct {
	adapters map[Strategy]IndexAdapter

	classifier       Classifier
	weightResolver   *WeightResolver
	fusionEngine     *FusionEngine
	consensusBooster *ConsensusBooster
	finalRanker      *FinalRanker
	featureEmitter   *FeatureEmitter

	logger          *slog.Logger
	config          CoreConfig
	lexicalExpander func(string) string
	sink            DiagnosticsSink

	sem chan struct{}
}

// NewCoordinator wires a Coordinator over the given adapters. At least one
// adapter must be supplied. Unset components default to the spec's baseline
// implementations.
func NewCoordinator(adapters []IndexAdapter, opts ...CoordinatorOption) (*Coordinator, error) {
	if len(adapters) == 0 {
		return nil, errors.New("hmrcore: at least one IndexAdapter is required")
	}

	byStrategy := make(map[Strategy]IndexAdapter, len(adapters))
	for _, a := range adapters {
		byStrategy[a.Strategy()] = a
	}

	c := &Coordinator{
		adapters:         byStrategy,
		classifier:       NewSoftmaxClassifier(),
		weightResolver:   NewWeightResolver(),
		fusionEngine:     NewFusionEngine(),
		consensusBooster: NewConsensusBooster(),
		finalRanker:      NewFinalRanker(),
		featureEmitter:   NewFeatureEmitter(nil),
		logger:           slog.Default(),
		config:           DefaultCoreConfig(),
		sink:             noopSink{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.config.MaxConcurrentQueries > 0 {
		c.sem = make(chan struct{}, c.config.MaxConcurrentQueries)
	}
	return c, nil
}

// Search runs one query end to end: classify, fan out, fuse, boost, rank,
// emit features.
func (c *Coordinator) Search(ctx context.Context, q *Query) (*SearchResponse, error) {
	if err := ValidateQuery(q); err != nil {
		return nil, err
	}

	if c.sem != nil {
		select {
		case c.sem <- struct{}{}:
			defer func() { <-c.sem }()
		default:
			return nil, hmrerrors.Overloaded("concurrency ceiling exceeded")
		}
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.config.TotalDeadline)
	defer cancel()

	queryLogger := logging.NewQueryLogger(c.logger, q.TraceID)

	dist := c.classifier.Classify(q.Text)
	dominant := dist.Dominant()
	kFinal := c.finalRanker.CutoffFor(q, dominant)
	ks := perStrategyK(kFinal)

	results, diags := c.fanOut(ctx, queryLogger, q, ks)

	available := make(map[Strategy]bool, len(results))
	allFailed := true
	for _, r := range results {
		if r.Status == StatusDone {
			available[r.Strategy] = true
			allFailed = false
		}
	}
	if allFailed {
		return nil, hmrerrors.AllStrategiesFailed("every strategy returned TIMEOUT or FAILED")
	}

	weights := c.weightResolver.Resolve(dist, available)

	candidates := c.fusionEngine.Fuse(results, weights)
	candidateIndex := make(map[ChunkID]*candidate, len(candidates))
	for _, cand := range candidates {
		c.consensusBooster.Apply(cand)
		candidateIndex[cand.id] = cand
	}

	hits := c.finalRanker.Rank(candidates, dominant, kFinal)
	c.featureEmitter.Emit(ctx, hits, candidateIndex, weights)

	record := DiagnosticsRecord{
		TraceID:        q.TraceID,
		Intent:         dist,
		Weights:        weights,
		Strategies:     diags,
		UniqueChunks:   len(candidates),
		FinalK:         kFinal,
		TotalElapsed:   time.Since(start),
		ScoringVersion: c.config.ScoringVersion,
	}
	c.sink.Record(record)
	queryLogger.Info("query_complete",
		slog.String("dominant_intent", string(dominant)),
		slog.Int("unique_chunks", record.UniqueChunks),
		slog.Int("final_k", record.FinalK),
		slog.Duration("elapsed", record.TotalElapsed),
	)

	return &SearchResponse{Hits: hits, Diagnostics: record}, nil
}

// fanOut calls every configured adapter concurrently, each bounded by the
// per-strategy soft deadline, and returns both the strategy results (always
// one per configured adapter, possibly empty) and their diagnostics slices.
func (c *Coordinator) fanOut(ctx context.Context, queryLogger *slog.Logger, q *Query, ks int) ([]StrategyResult, []StrategyDiagnostic) {
	results := make([]StrategyResult, len(c.adapters))
	diags := make([]StrategyDiagnostic, len(c.adapters))

	i := 0
	idx := make(map[Strategy]int, len(c.adapters))
	for strategy := range c.adapters {
		idx[strategy] = i
		i++
	}

	g, gctx := errgroup.WithContext(ctx)
	// Each goroutine writes to its own slice slot; no shared mutable state
	// crosses goroutine boundaries, so no mutex is needed (mirrors the
	// teacher's parallelSearch pattern of pre-sized result slots).
	for strategy, adapter := range c.adapters {
		strategy, adapter := strategy, adapter
		slot := idx[strategy]
		g.Go(func() error {
			results[slot], diags[slot] = c.callStrategy(gctx, queryLogger, strategy, adapter, q, ks)
			return nil
		})
	}
	_ = g.Wait() // per-strategy errors are absorbed into results/diags, never propagated

	return results, diags
}

func (c *Coordinator) callStrategy(ctx context.Context, queryLogger *slog.Logger, strategy Strategy, adapter IndexAdapter, q *Query, ks int) (StrategyResult, StrategyDiagnostic) {
	callCtx, cancel := context.WithTimeout(ctx, c.config.StrategyDeadline)
	defer cancel()

	text := q.Text
	if strategy == StrategyLexical && c.lexicalExpander != nil {
		text = c.lexicalExpander(text)
	}
	expanded := *q
	expanded.Text = text

	callStart := time.Now()
	result, err := adapter.Retrieve(callCtx, &expanded, ks)
	latency := time.Since(callStart)

	if err != nil {
		status := statusForError(callCtx, err)
		queryLogger.Warn("strategy_degraded",
			slog.String("strategy", string(strategy)),
			slog.String("status", string(status)),
			slog.String("error", err.Error()),
		)
		return StrategyResult{Strategy: strategy, Hits: nil, Status: status},
			StrategyDiagnostic{Strategy: strategy, Status: status, Latency: latency}
	}

	result.Strategy = strategy
	result.Status = StatusDone
	return result, StrategyDiagnostic{Strategy: strategy, Status: StatusDone, Latency: latency, InputCount: len(result.Hits)}
}

func statusForError(ctx context.Context, err error) StrategyStatus {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return StatusTimeout
	}
	var ae *AdapterError
	if errors.As(err, &ae) {
		if ae.Kind == AdapterErrTimeout {
			return StatusTimeout
		}
	}
	return StatusFailed
}
