package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdapter is a deterministic, in-memory IndexAdapter stand-in for
// exercising the Coordinator without a real backend.
type fakeAdapter struct {
	strategy Strategy
	hits     []ChunkID
	delay    time.Duration
	err      error
}

func (f *fakeAdapter) Strategy() Strategy { return f.strategy }
func (f *fakeAdapter) Warmup(context.Context) error { return nil }

func (f *fakeAdapter) Retrieve(ctx context.Context, _ *Query, k int) (StrategyResult, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return StrategyResult{}, ctx.Err()
		}
	}
	if f.err != nil {
		return StrategyResult{}, f.err
	}
	hits := f.hits
	if len(hits) > k {
		hits = hits[:k]
	}
	return StrategyResult{Hits: hits}, nil
}

func newFourStrategyCoordinator(t *testing.T, opts ...CoordinatorOption) *Coordinator {
	t.Helper()
	adapters := []IndexAdapter{
		&fakeAdapter{strategy: StrategyVector, hits: []ChunkID{"a", "b", "c"}},
		&fakeAdapter{strategy: StrategyLexical, hits: []ChunkID{"b", "a", "d"}},
		&fakeAdapter{strategy: StrategySymbol, hits: []ChunkID{"a"}},
		&fakeAdapter{strategy: StrategyGraph, hits: []ChunkID{}},
	}
	c, err := NewCoordinator(adapters, opts...)
	require.NoError(t, err)
	return c
}

func TestCoordinator_Search_ReturnsFusedHitsSortedByFinalScore(t *testing.T) {
	c := newFourStrategyCoordinator(t)

	resp, err := c.Search(context.Background(), &Query{Text: "getUserById", TraceID: "t1"})

	require.NoError(t, err)
	require.NotEmpty(t, resp.Hits)
	for i := 1; i < len(resp.Hits); i++ {
		assert.GreaterOrEqual(t, resp.Hits[i-1].FinalScore, resp.Hits[i].FinalScore)
	}
}

func TestCoordinator_Search_RejectsInvalidQuery(t *testing.T) {
	c := newFourStrategyCoordinator(t)

	_, err := c.Search(context.Background(), &Query{Text: "   "})

	require.Error(t, err)
}

func TestCoordinator_Search_AllStrategiesFailedSurfaces(t *testing.T) {
	adapters := []IndexAdapter{
		&fakeAdapter{strategy: StrategyVector, err: assertErr{}},
		&fakeAdapter{strategy: StrategyLexical, err: assertErr{}},
		&fakeAdapter{strategy: StrategySymbol, err: assertErr{}},
		&fakeAdapter{strategy: StrategyGraph, err: assertErr{}},
	}
	c, err := NewCoordinator(adapters)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), &Query{Text: "anything"})

	require.Error(t, err)
}

func TestCoordinator_Search_PartialFailureStillReturnsResults(t *testing.T) {
	adapters := []IndexAdapter{
		&fakeAdapter{strategy: StrategyVector, hits: []ChunkID{"a", "b"}},
		&fakeAdapter{strategy: StrategyLexical, hits: []ChunkID{"a"}},
		&fakeAdapter{strategy: StrategySymbol, err: assertErr{}},
		&fakeAdapter{strategy: StrategyGraph, err: assertErr{}},
	}
	c, err := NewCoordinator(adapters)
	require.NoError(t, err)

	resp, err := c.Search(context.Background(), &Query{Text: "anything"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Hits)
}

func TestCoordinator_Search_SlowStrategyTimesOutWithoutFailingQuery(t *testing.T) {
	adapters := []IndexAdapter{
		&fakeAdapter{strategy: StrategyVector, hits: []ChunkID{"a"}},
		&fakeAdapter{strategy: StrategyLexical, hits: []ChunkID{"a"}},
		&fakeAdapter{strategy: StrategySymbol, hits: []ChunkID{"a"}},
		&fakeAdapter{strategy: StrategyGraph, delay: 5 * time.Second},
	}
	cfg := DefaultCoreConfig()
	cfg.StrategyDeadline = 20 * time.Millisecond
	cfg.TotalDeadline = 100 * time.Millisecond
	c, err := NewCoordinator(adapters, WithConfig(cfg))
	require.NoError(t, err)

	resp, err := c.Search(context.Background(), &Query{Text: "anything"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Hits)
}

func TestCoordinator_Search_OverloadedWhenConcurrencyCeilingExceeded(t *testing.T) {
	adapters := []IndexAdapter{
		&fakeAdapter{strategy: StrategyVector, hits: []ChunkID{"a"}, delay: 50 * time.Millisecond},
		&fakeAdapter{strategy: StrategyLexical, hits: []ChunkID{"a"}},
		&fakeAdapter{strategy: StrategySymbol, hits: []ChunkID{"a"}},
		&fakeAdapter{strategy: StrategyGraph, hits: []ChunkID{"a"}},
	}
	cfg := DefaultCoreConfig()
	cfg.MaxConcurrentQueries = 1
	c, err := NewCoordinator(adapters, WithConfig(cfg))
	require.NoError(t, err)

	errs := make(chan error, 2)
	go func() {
		_, err := c.Search(context.Background(), &Query{Text: "first"})
		errs <- err
	}()
	time.Sleep(5 * time.Millisecond)
	_, second := c.Search(context.Background(), &Query{Text: "second"})

	first := <-errs
	assert.NoError(t, first)
	require.Error(t, second)
}

func TestCoordinator_Search_EmitsDiagnosticsToSink(t *testing.T) {
	var captured DiagnosticsRecord
	sink := sinkFunc(func(r DiagnosticsRecord) { captured = r })

	c := newFourStrategyCoordinator(t, WithDiagnosticsSink(sink))

	_, err := c.Search(context.Background(), &Query{Text: "getUserById", TraceID: "trace-xyz"})

	require.NoError(t, err)
	assert.Equal(t, "trace-xyz", captured.TraceID)
	assert.NotZero(t, captured.FinalK)
}

func TestCoordinator_Search_LexicalExpanderOnlyAffectsLexicalAdapter(t *testing.T) {
	var seenByLexical, seenByVector string
	adapters := []IndexAdapter{
		&recordingAdapter{strategy: StrategyVector, seen: &seenByVector},
		&recordingAdapter{strategy: StrategyLexical, seen: &seenByLexical},
		&fakeAdapter{strategy: StrategySymbol},
		&fakeAdapter{strategy: StrategyGraph},
	}
	c, err := NewCoordinator(adapters, WithLexicalExpander(func(s string) string { return s + " EXPANDED" }))
	require.NoError(t, err)

	_, err = c.Search(context.Background(), &Query{Text: "original"})
	require.NoError(t, err)

	assert.Equal(t, "original EXPANDED", seenByLexical)
	assert.Equal(t, "original", seenByVector)
}

func TestNewCoordinator_RequiresAtLeastOneAdapter(t *testing.T) {
	_, err := NewCoordinator(nil)

	require.Error(t, err)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

type sinkFunc func(DiagnosticsRecord)

func (f sinkFunc) Record(r DiagnosticsRecord) { f(r) }

type recordingAdapter struct {
	strategy Strategy
	seen     *string
}

func (r *recordingAdapter) Strategy() Strategy          { return r.strategy }
func (r *recordingAdapter) Warmup(context.Context) error { return nil }
func (r *recordingAdapter) Retrieve(_ context.Context, q *Query, _ int) (StrategyResult, error) {
	*r.seen = q.Text
	return StrategyResult{}, nil
}
