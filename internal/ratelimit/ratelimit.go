// Package ratelimit paces repeated work with golang.org/x/time/rate.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with convenience methods.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing perMinute events per minute with a burst of
// one. perMinute <= 0 disables limiting.
func New(perMinute int) *Limiter {
	if perMinute <= 0 {
		return Unlimited()
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
	}
}

// NewWithBurst creates a new rate limiter with explicit burst.
func NewWithBurst(perSecond float64, burst int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Unlimited creates a limiter that never blocks.
func Unlimited() *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether an event may happen now.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// SetPerMinute updates the rate.
func (l *Limiter) SetPerMinute(perMinute int) {
	if perMinute <= 0 {
		l.limiter.SetLimit(rate.Inf)
		return
	}
	l.limiter.SetLimit(rate.Limit(float64(perMinute) / 60.0))
}
