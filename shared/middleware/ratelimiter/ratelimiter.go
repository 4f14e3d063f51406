// Package ratelimiter provides per-key token buckets, kept in memory or in Redis.
package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether one more request for key fits in its bucket.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// bucket implements a token bucket rate limiter
type bucket struct {
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	mu         sync.Mutex
	timer      *time.Timer
	key        string
	parent     *UserRateLimiter
}

// UserRateLimiter keeps one in-process bucket per key. Idle buckets expire.
type UserRateLimiter struct {
	buckets        map[string]*bucket
	mu             sync.RWMutex
	rate           float64
	capacity       float64
	expirationTime time.Duration
}

var _ Limiter = (*UserRateLimiter)(nil)

// New creates a limiter refilling rate tokens per second up to capacity.
func New(rate float64, capacity float64, expirationTime time.Duration) *UserRateLimiter {
	return &UserRateLimiter{
		buckets:        make(map[string]*bucket),
		rate:           rate,
		capacity:       capacity,
		expirationTime: expirationTime,
	}
}

func (u *UserRateLimiter) cleanup(key string) {
	u.mu.Lock()
	delete(u.buckets, key)
	u.mu.Unlock()
}

func (b *bucket) resetTimer() {
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.parent.expirationTime, func() {
		b.parent.cleanup(b.key)
	})
}

func (u *UserRateLimiter) getBucket(key string) *bucket {
	u.mu.RLock()
	b, exists := u.buckets[key]
	u.mu.RUnlock()

	if exists {
		b.mu.Lock()
		b.resetTimer()
		b.mu.Unlock()
		return b
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	// Double-check after acquiring write lock
	if b, exists = u.buckets[key]; exists {
		b.mu.Lock()
		b.resetTimer()
		b.mu.Unlock()
		return b
	}

	b = &bucket{
		tokens:     u.capacity,
		capacity:   u.capacity,
		rate:       u.rate,
		lastRefill: time.Now(),
		key:        key,
		parent:     u,
	}
	u.buckets[key] = b
	b.resetTimer()

	return b
}

func (b *bucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func (u *UserRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	return u.getBucket(key).allow(), nil
}

// Stop cleans up all timers
func (u *UserRateLimiter) Stop() {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, b := range u.buckets {
		if b.timer != nil {
			b.timer.Stop()
		}
	}
}
