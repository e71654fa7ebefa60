package gateway

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Breaker wraps an Invoker with a circuit breaker. When a backend is
// tripping, calls fail fast instead of burning the per-call timeout; the
// coordinator's retry/placeholder policy handles the failure like any
// other.
type Breaker struct {
	inner Invoker
	cb    *gobreaker.CircuitBreaker[*Response]
}

// Compile-time verification that Breaker implements Invoker.
var _ Invoker = (*Breaker)(nil)

// WithBreaker wraps the given Invoker. The breaker opens after
// maxFailures consecutive failures and probes again after cooldown.
func WithBreaker(inner Invoker, maxFailures int, cooldown time.Duration) *Breaker {
	if maxFailures < 1 {
		maxFailures = 1
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:    "llm-gateway",
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
	}

	return &Breaker{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[*Response](settings),
	}
}

// Invoke delegates to the wrapped Invoker through the breaker.
func (b *Breaker) Invoke(ctx context.Context, req Request) (*Response, error) {
	return b.cb.Execute(func() (*Response, error) {
		return b.inner.Invoke(ctx, req)
	})
}

// State returns the current breaker state, for status reporting.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Tracker returns the wrapped gateway's token tracker, or nil when the
// inner Invoker does not track usage.
func (b *Breaker) Tracker() *TokenTracker {
	if t, ok := b.inner.(interface{ Tracker() *TokenTracker }); ok {
		return t.Tracker()
	}
	return nil
}
