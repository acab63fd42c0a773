package http

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// rateLimiter hands out one token bucket per client IP. Buckets of idle
// clients expire after ten minutes.
type rateLimiter struct {
	clients *gocache.Cache
	limit   rate.Limit
	burst   int
}

// newRateLimiter allows perMinute requests per client per minute. A
// non-positive value disables limiting and returns nil.
func newRateLimiter(perMinute int) *rateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &rateLimiter{
		clients: gocache.New(10*time.Minute, 5*time.Minute),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
	}
}

func (rl *rateLimiter) allow(clientIP string) bool {
	if rl == nil {
		return true
	}
	var lim *rate.Limiter
	if v, ok := rl.clients.Get(clientIP); ok {
		lim = v.(*rate.Limiter)
	} else {
		lim = rate.NewLimiter(rl.limit, rl.burst)
		// Add fails when another request created the bucket first.
		if err := rl.clients.Add(clientIP, lim, gocache.DefaultExpiration); err != nil {
			if v, ok := rl.clients.Get(clientIP); ok {
				lim = v.(*rate.Limiter)
			}
		}
	}
	// Touch so active clients keep their bucket.
	rl.clients.SetDefault(clientIP, lim)
	return lim.Allow()
}

func (rl *rateLimiter) clientCount() int {
	if rl == nil {
		return 0
	}
	return rl.clients.ItemCount()
}
