package core

import (
	"context"
	"time"
)

// IndexAdapter is the uniform capability each of the four strategy
// backends exposes (§4.1, §6). The core depends only on this interface —
// no inheritance hierarchy, just a tagged Strategy() for fusion tables and
// diagnostics (§9 "Polymorphism over strategy backends").
type IndexAdapter interface {
	// Strategy identifies which of the four backends this adapter is.
	Strategy() Strategy

	// Retrieve returns at most k chunk ids in descending relevance order as
	// the backend defines it. No raw scores leak out — only order matters.
	// Retrieve must respect ctx cancellation/deadline and return promptly;
	// the Coordinator treats a context error as StrategyTimeout.
	Retrieve(ctx context.Context, query *Query, k int) (StrategyResult, error)

	// Warmup optionally primes caches. Adapters without a meaningful warmup
	// step may implement it as a no-op.
	Warmup(ctx context.Context) error
}

// AdapterError distinguishes the three ways an adapter call can fail
// without throwing into the Coordinator's hot path (§4.1, §7).
type AdapterError struct {
	Kind    AdapterErrorKind
	Message string
}

// AdapterErrorKind is the closed set of adapter-facing error kinds.
type AdapterErrorKind string

const (
	AdapterErrTimeout      AdapterErrorKind = "Timeout"
	AdapterErrUnavailable  AdapterErrorKind = "Unavailable"
	AdapterErrInvalidQuery AdapterErrorKind = "InvalidQuery"
)

func (e *AdapterError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// DeadlineFor returns the deadline ctx should carry for an adapter call
// given the coordinator's soft per-strategy deadline.
func DeadlineFor(soft time.Duration) time.Time {
	return time.Now().Add(soft)
}
