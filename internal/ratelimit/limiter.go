// Package ratelimit paces request issuance to a configured frequency.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter gates request issuance at a fixed requests-per-second ceiling.
// A burst of 1 enforces strict 1/rate spacing between grants: the first
// acquire passes immediately, each later one waits out the remainder of
// the inter-issuance interval. The zero-value-equivalent returned by
// New(0) never waits.
//
// Waits are passive (timer-based) and honor context cancellation. The
// underlying x/time limiter serializes access to its issuance cursor, so
// a Limiter shared across goroutines stays correct, though the probe
// pipeline only ever drives it sequentially.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a Limiter allowing rps requests per second.
// rps <= 0 means unlimited.
func New(rps float64) *Limiter {
	if rps <= 0 {
		return &Limiter{}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Wait blocks until issuing another request would not exceed the
// configured rate, or until ctx is done. It is a no-op when no rate
// limit is configured.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// Rate returns the configured requests-per-second ceiling, 0 when
// unlimited.
func (l *Limiter) Rate() float64 {
	if l == nil || l.limiter == nil {
		return 0
	}
	return float64(l.limiter.Limit())
}
