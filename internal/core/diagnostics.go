package core

import "time"

// StrategyDiagnostic is the per-strategy slice of a DiagnosticsRecord (§6).
type StrategyDiagnostic struct {
	Strategy   Strategy
	Status     StrategyStatus
	Latency    time.Duration
	InputCount int // chunks returned by this strategy before union
}

// DiagnosticsRecord is the per-query diagnostics/metrics record (§6):
// "trace_id, intent distribution, final weights, per-strategy latency and
// status, counts (input chunks per strategy, unique chunks after union,
// final K), total elapsed." This is the only observability surface; wiring
// to a concrete telemetry system is out of scope (a DiagnosticsSink does
// that job).
type DiagnosticsRecord struct {
	TraceID          string
	Intent           IntentDistribution
	Weights          StrategyWeights
	Strategies       []StrategyDiagnostic
	UniqueChunks     int
	FinalK           int
	TotalElapsed     time.Duration
	ScoringVersion   string
}

// DiagnosticsSink receives one DiagnosticsRecord per completed query.
// Implementations must not block the query path; see
// internal/diagnostics for the reference sinks.
type DiagnosticsSink interface {
	Record(DiagnosticsRecord)
}

// noopSink discards every record; the default when no sink is configured.
type noopSink struct{}

func (noopSink) Record(DiagnosticsRecord) {}
