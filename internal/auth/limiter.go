package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// FailureLimiter tracks invalid key attempts per client. Each client gets
// a token bucket refilled at perMinute tokens per minute; every failure
// spends one token and an empty bucket blocks the client.
type FailureLimiter struct {
	mu        sync.Mutex
	perMinute int
	clients   map[string]*rate.Limiter
	now       func() time.Time
}

// NewFailureLimiter creates a limiter allowing perMinute failures per
// client per minute.
func NewFailureLimiter(perMinute int) *FailureLimiter {
	if perMinute <= 0 {
		perMinute = DefaultFailuresPerMinute
	}
	return &FailureLimiter{
		perMinute: perMinute,
		clients:   make(map[string]*rate.Limiter),
		now:       time.Now,
	}
}

func (l *FailureLimiter) limiter(client string) *rate.Limiter {
	lim, ok := l.clients[client]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)
		l.clients[client] = lim
	}
	return lim
}

// Blocked reports whether client has used up its failures.
func (l *FailureLimiter) Blocked(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.clients[client]
	if !ok {
		return false
	}
	return lim.TokensAt(l.now()) < 1
}

// Fail records a failed attempt by client.
func (l *FailureLimiter) Fail(client string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiter(client).AllowN(l.now(), 1)
}

// Forget drops clients whose bucket has refilled completely.
func (l *FailureLimiter) Forget() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for client, lim := range l.clients {
		if lim.TokensAt(now) >= float64(l.perMinute) {
			delete(l.clients, client)
		}
	}
}

// Len returns the number of clients being tracked.
func (l *FailureLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
