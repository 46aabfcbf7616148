package pathpress

import (
	"sync"
	"time"
)

// LoginLimiter throttles admin login attempts per client IP over a sliding
// window. Only failed attempts consume budget: the handler calls Check before
// verifying the password and Record after a failure, so a correct login never
// locks the operator out. Limits come from SiteConfig.
type LoginLimiter struct {
	mu     sync.Mutex
	failed map[string][]time.Time
	max    int
	window time.Duration
	done   chan struct{}
}

// NewLoginLimiter creates a limiter allowing max failed attempts per window
// and starts a background sweeper for idle IPs. Call Stop to release it.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	l := &LoginLimiter{
		failed: make(map[string][]time.Time),
		max:    max,
		window: window,
		done:   make(chan struct{}),
	}
	go l.sweep()
	return l
}

// Stop ends the background sweeper.
func (l *LoginLimiter) Stop() {
	close(l.done)
}

func (l *LoginLimiter) sweep() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.mu.Lock()
			cutoff := time.Now().Add(-l.window)
			for ip := range l.failed {
				if len(l.prune(ip, cutoff)) == 0 {
					delete(l.failed, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

// prune drops attempts older than cutoff for ip. Caller holds mu.
func (l *LoginLimiter) prune(ip string, cutoff time.Time) []time.Time {
	hits := l.failed[ip]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.failed[ip] = kept
	return kept
}

// Check reports whether ip still has login budget. It records nothing.
func (l *LoginLimiter) Check(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prune(ip, time.Now().Add(-l.window))) < l.max
}

// Record charges one failed attempt against ip.
func (l *LoginLimiter) Record(ip string) {
	l.mu.Lock()
	l.failed[ip] = append(l.failed[ip], time.Now())
	l.mu.Unlock()
}
