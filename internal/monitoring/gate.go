package monitoring

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RequestGate implements a client-side token bucket gate in front of the
// summarization provider. It enforces both a per-minute and a per-hour
// ceiling so a busy web session cannot burn through the API quota.
type RequestGate struct {
	perMinute *rate.Limiter
	perHour   *rate.Limiter
}

// NewRequestGate creates a gate allowing up to perMinute requests per minute
// and perHour per hour. Both buckets allow an initial burst up to their
// window ceiling, then refill at the sustained rate.
//
// Example:
//
//	gate := NewRequestGate(50, 1000) // 50/min, 1000/h
func NewRequestGate(perMinute, perHour int) *RequestGate {
	return &RequestGate{
		perMinute: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		perHour:   rate.NewLimiter(rate.Limit(float64(perHour)/3600.0), perHour),
	}
}

// Allow blocks until both buckets grant a token or the context is canceled.
// It should be called immediately before a provider request.
func (g *RequestGate) Allow(ctx context.Context) error {
	// 分単位の制限を先に消費する（待ち時間が短い方から）
	if err := g.perMinute.Wait(ctx); err != nil {
		return fmt.Errorf("per-minute limit: %w", err)
	}
	if err := g.perHour.Wait(ctx); err != nil {
		return fmt.Errorf("per-hour limit: %w", err)
	}
	return nil
}
