package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Endpoint groups of the booking API that get their own token bucket.
const (
	GroupSchedule = "schedule"
	GroupSeats    = "seats"
	GroupTickets  = "tickets"
	GroupAuth     = "auth"
	GroupAdmin    = "admin"
)

type Limit struct {
	RequestsPerSecond float64
	Burst             int
}

func DefaultLimit() Limit {
	return Limit{
		RequestsPerSecond: 10,
		Burst:             20,
	}
}

// GroupLimiter throttles outgoing calls per endpoint group. Groups without an
// explicit limit share the default one lazily.
type GroupLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	fallback Limit
}

func NewGroupLimiter(fallback Limit) *GroupLimiter {
	return &GroupLimiter{
		limiters: make(map[string]*rate.Limiter),
		fallback: fallback,
	}
}

// NewBookingLimiter returns the limits used against the booking API. Seat
// layouts are fanned out per schedule card, so that group gets the widest bucket.
func NewBookingLimiter() *GroupLimiter {
	l := NewGroupLimiter(DefaultLimit())
	l.SetLimit(GroupSeats, 20, 30)
	l.SetLimit(GroupSchedule, 15, 25)
	l.SetLimit(GroupAuth, 5, 10)
	return l
}

func (g *GroupLimiter) limiter(group string) *rate.Limiter {
	g.mu.RLock()
	l, ok := g.limiters[group]
	g.mu.RUnlock()
	if ok {
		return l
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if l, ok = g.limiters[group]; ok {
		return l
	}
	l = rate.NewLimiter(rate.Limit(g.fallback.RequestsPerSecond), g.fallback.Burst)
	g.limiters[group] = l
	return l
}

func (g *GroupLimiter) SetLimit(group string, rps float64, burst int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.limiters[group] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until the group has a token or ctx is done. A nil limiter never blocks.
func (g *GroupLimiter) Wait(ctx context.Context, group string) error {
	if g == nil {
		return nil
	}
	return g.limiter(group).Wait(ctx)
}
