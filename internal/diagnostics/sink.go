// Package diagnostics provides reference implementations of the
// per-query diagnostics stream the Coordinator emits (spec §6).
//
// Grounded on internal/telemetry/query_metrics.go's QueryEvent/LatencyBucket
// pattern: a small, dependency-light recording surface with a local-only
// default.
package diagnostics

import (
	"log/slog"

	"github.com/aman-cerp/hmrcore/internal/core"
)

// LogSink writes every record through slog, one structured event per query.
// The Coordinator does not use it unless it is configured explicitly; with no
// sink configured, records are discarded.
type LogSink struct {
	Logger *slog.Logger
}

// NewLogSink constructs a LogSink. logger may be nil, in which case
// slog.Default() is used lazily on each Record call.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{Logger: logger}
}

// Record implements core.DiagnosticsSink.
func (s *LogSink) Record(r core.DiagnosticsRecord) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := make([]any, 0, 4+len(r.Strategies)*2)
	attrs = append(attrs,
		slog.String("trace_id", r.TraceID),
		slog.Int("unique_chunks", r.UniqueChunks),
		slog.Int("final_k", r.FinalK),
		slog.String("scoring_version", r.ScoringVersion),
	)
	for _, s := range r.Strategies {
		attrs = append(attrs,
			slog.String("strategy_"+string(s.Strategy), string(s.Status)),
			slog.Duration("strategy_"+string(s.Strategy)+"_latency", s.Latency),
		)
	}
	logger.Debug("diagnostics_record", attrs...)
}

// ChannelSink fans records out over a buffered channel, matching the
// teacher's QueryMetrics.Record non-blocking-best-effort style: a full
// channel drops the record rather than stalling the query path.
type ChannelSink struct {
	ch chan core.DiagnosticsRecord
}

// NewChannelSink constructs a ChannelSink with the given buffer capacity.
func NewChannelSink(capacity int) *ChannelSink {
	if capacity <= 0 {
		capacity = 100
	}
	return &ChannelSink{ch: make(chan core.DiagnosticsRecord, capacity)}
}

// Record implements core.DiagnosticsSink. It never blocks: if the channel
// is full, the record is dropped.
func (s *ChannelSink) Record(r core.DiagnosticsRecord) {
	select {
	case s.ch <- r:
	default:
	}
}

// Records returns the channel callers should range over to consume records.
func (s *ChannelSink) Records() <-chan core.DiagnosticsRecord {
	return s.ch
}

// Close closes the underlying channel. Callers must stop calling Record
// before closing.
func (s *ChannelSink) Close() {
	close(s.ch)
}
