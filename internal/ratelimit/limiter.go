// Package ratelimit throttles anonymous complaint intake per client key.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter admits at most a configured number of events per key per window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
