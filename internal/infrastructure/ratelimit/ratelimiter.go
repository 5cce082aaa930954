// Package ratelimit counts requests per key in fixed windows shared through
// Redis, so every API instance sees the same budget.
package ratelimit

import (
	"context"
	"time"
)

// Rule allows Limit requests per Window. A non-positive Limit disables it.
type Rule struct {
	Limit  int
	Window time.Duration
}

func (r Rule) Enabled() bool {
	return r.Limit > 0 && r.Window > 0
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string, rule Rule) (Decision, error)
	Reset(ctx context.Context, key string) error
}
