package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/utils"
)

// RateLimitConfig sizes the per-client token buckets guarding uploads.
type RateLimitConfig struct {
	Burst        int // uploads a client may send back to back
	RefillPerMin int // tokens given back per minute
	MaxEntries   int // evict idle clients once this many are tracked, 0 = no cap
	IdleTTL      time.Duration
	TrustProxy   bool // resolve the client from proxy headers
	Now          func() time.Time
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	c.Burst = max(c.Burst, 1)
	c.RefillPerMin = max(c.RefillPerMin, 1)
	if c.IdleTTL <= 0 {
		c.IdleTTL = 15 * time.Minute
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

type tokens struct {
	left    float64
	updated time.Time
}

// decision is the outcome of one admission check.
type decision struct {
	allowed    bool
	remaining  int
	retryAfter time.Duration
}

type uploadLimiter struct {
	cfg     RateLimitConfig
	perSec  float64
	mu      sync.Mutex
	clients map[string]*tokens
	evicted time.Time
}

func newUploadLimiter(cfg RateLimitConfig) *uploadLimiter {
	cfg = cfg.withDefaults()
	return &uploadLimiter{
		cfg:     cfg,
		perSec:  float64(cfg.RefillPerMin) / 60,
		clients: make(map[string]*tokens),
		evicted: cfg.Now(),
	}
}

// take spends one token of client, refilling first for the time elapsed
// since its last visit.
func (l *uploadLimiter) take(client string, now time.Time) decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evictIdle(now)

	capacity := float64(l.cfg.Burst)
	t, ok := l.clients[client]
	if !ok {
		if l.cfg.MaxEntries > 0 && len(l.clients) >= l.cfg.MaxEntries {
			l.evictOldest()
		}
		t = &tokens{left: capacity, updated: now}
		l.clients[client] = t
	}
	if elapsed := now.Sub(t.updated).Seconds(); elapsed > 0 {
		t.left = math.Min(capacity, t.left+elapsed*l.perSec)
		t.updated = now
	}

	if t.left >= 1 {
		t.left--
		return decision{allowed: true, remaining: int(t.left)}
	}
	wait := time.Duration(math.Ceil((1-t.left)/l.perSec)) * time.Second
	return decision{retryAfter: max(wait, time.Second)}
}

// evictIdle drops clients that have been idle for IdleTTL, at most once per
// minute unless the MaxEntries cap is reached. take evicts the oldest
// client when that is not enough.
func (l *uploadLimiter) evictIdle(now time.Time) {
	full := l.cfg.MaxEntries > 0 && len(l.clients) >= l.cfg.MaxEntries
	if !full && now.Sub(l.evicted) < time.Minute {
		return
	}
	for client, t := range l.clients {
		if now.Sub(t.updated) > l.cfg.IdleTTL {
			delete(l.clients, client)
		}
	}
	l.evicted = now
}

// evictOldest drops the least recently seen client so a full table still
// has room for a new one.
func (l *uploadLimiter) evictOldest() {
	var (
		oldest string
		seen   time.Time
		found  bool
	)
	for client, t := range l.clients {
		if !found || t.updated.Before(seen) {
			oldest, seen, found = client, t.updated, true
		}
	}
	if found {
		delete(l.clients, oldest)
	}
}

// RateLimit throttles each client to cfg.Burst uploads, given back at
// cfg.RefillPerMin per minute. Rejected requests get 429 with Retry-After.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newUploadLimiter(cfg)
	limit := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := l.take(utils.ClientIP(r, l.cfg.TrustProxy), l.cfg.Now())

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
			if !d.allowed {
				h.Set("Retry-After", strconv.Itoa(int(d.retryAfter.Seconds())))
				writeNotice(w, http.StatusTooManyRequests, "Too many uploads, please wait")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
