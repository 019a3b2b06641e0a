// Package ratelimit enforces the archive's fair-access policy with a
// token-bucket governor shared by every request the client issues.
//
// Tokens refill continuously at the sustained rate and are capped at
// the burst allowance. Admit blocks until a token is available and
// consumes it atomically; concurrent callers never double-spend. A
// token consumed for a request that is later cancelled is not
// refunded: once admission happened, the fair-access budget was spent.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Governor is a token-bucket admission controller. The zero value is
// not usable; construct with New.
type Governor struct {
	limiter *rate.Limiter
}

// New creates a Governor sustaining perSecond requests per second with
// the given burst allowance. Both must be positive.
func New(perSecond float64, burst int) (*Governor, error) {
	if perSecond <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %v", perSecond)
	}
	if burst < 1 {
		return nil, fmt.Errorf("burst must be at least 1, got %d", burst)
	}
	return &Governor{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}, nil
}

// Admit blocks until one request token is available, then consumes it.
// It returns early only if ctx is cancelled; it has no other failure
// mode. Waiters do not block each other's timers.
func (g *Governor) Admit(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

// Rate returns the sustained rate in requests per second.
func (g *Governor) Rate() float64 {
	return float64(g.limiter.Limit())
}

// Burst returns the burst allowance.
func (g *Governor) Burst() int {
	return g.limiter.Burst()
}
