package httpcache

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"
)

// limiter spaces out requests to each host.
var limiter = NewDomainRateLimiter(1100 * time.Millisecond)

// DomainRateLimiter enforces a minimum delay between requests to the same host.
// It is safe for concurrent use.
type DomainRateLimiter struct {
	overrides   map[string]time.Duration
	lastRequest sync.Map // host -> time.Time
	locks       sync.Map // host -> *sync.Mutex
	overrideMu  sync.RWMutex
	minDelay    time.Duration
}

// NewDomainRateLimiter creates a limiter with minDelay between requests per host.
func NewDomainRateLimiter(minDelay time.Duration) *DomainRateLimiter {
	return &DomainRateLimiter{minDelay: minDelay, overrides: make(map[string]time.Duration)}
}

// SetDomainDelay overrides the delay for one host.
func (r *DomainRateLimiter) SetDomainDelay(host string, delay time.Duration) {
	r.overrideMu.Lock()
	defer r.overrideMu.Unlock()
	r.overrides[host] = delay
}

// SetDefaultDelay changes the delay used by the package-level fetch functions.
func SetDefaultDelay(d time.Duration) {
	limiter.overrideMu.Lock()
	defer limiter.overrideMu.Unlock()
	limiter.minDelay = d
}

// Wait blocks until a request to rawURL's host may be sent, or ctx is done.
func (r *DomainRateLimiter) Wait(ctx context.Context, rawURL string, logger *slog.Logger) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return
	}
	host := u.Host

	muI, _ := r.locks.LoadOrStore(host, &sync.Mutex{})
	mu, ok := muI.(*sync.Mutex)
	if !ok {
		return
	}
	mu.Lock()
	defer mu.Unlock()

	r.overrideMu.RLock()
	delay := r.minDelay
	if d, ok := r.overrides[host]; ok {
		delay = d
	}
	r.overrideMu.RUnlock()

	if lastI, ok := r.lastRequest.Load(host); ok {
		if last, ok := lastI.(time.Time); ok {
			if wait := delay - time.Since(last); wait > 0 {
				if logger != nil {
					logger.DebugContext(ctx, "rate limit pause", "host", host, "wait", wait.Round(time.Millisecond))
				}
				t := time.NewTimer(wait)
				select {
				case <-ctx.Done():
				case <-t.C:
				}
				t.Stop()
			}
		}
	}

	r.lastRequest.Store(host, time.Now())
}
