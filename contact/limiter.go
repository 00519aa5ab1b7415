package contact

import (
	"sync"
	"time"
)

const (
	DefaultLimit  = 3
	DefaultWindow = time.Hour
)

// Limiter decides whether a client may submit again.
type Limiter interface {
	Allow(key string) bool
}

type window struct {
	count int
	start time.Time
}

// WindowLimiter allows up to limit calls per key in a fixed window that
// starts at the key's first call. Expired windows are replaced lazily on the
// next call; state lives only in this process.
type WindowLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*window
}

func NewWindowLimiter(limit int, period time.Duration) *WindowLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if period <= 0 {
		period = DefaultWindow
	}
	return &WindowLimiter{
		limit:   limit,
		window:  period,
		now:     time.Now,
		entries: make(map[string]*window),
	}
}

// WithClock replaces the time source.
func (l *WindowLimiter) WithClock(now func() time.Time) *WindowLimiter {
	l.now = now
	return l
}

func (l *WindowLimiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.entries[key]
	if !ok || now.Sub(w.start) > l.window {
		l.entries[key] = &window{count: 1, start: now}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}
