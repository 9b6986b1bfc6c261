package router

import (
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"devportal/internal/logging"
)

const (
	defaultLimitPerMinute = 30
	defaultBurst          = 10

	// Full buckets are dropped once this many addresses are tracked.
	maxTrackedIPs = 4096
)

type ipBucket struct {
	tokens float64
	last   time.Time
}

type limiter struct {
	mu            sync.Mutex
	ratePerSecond float64
	burst         float64
	buckets       map[string]ipBucket
}

func newLimiter(limitPerMinute, burst int) *limiter {
	if limitPerMinute <= 0 {
		limitPerMinute = defaultLimitPerMinute
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	return &limiter{
		ratePerSecond: float64(limitPerMinute) / 60.0,
		burst:         float64(burst),
		buckets:       make(map[string]ipBucket),
	}
}

func (l *limiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[ip]
	if !ok {
		if len(l.buckets) >= maxTrackedIPs {
			l.pruneLocked(now)
		}
		bucket = ipBucket{tokens: l.burst, last: now}
	}

	if elapsed := now.Sub(bucket.last).Seconds(); elapsed > 0 {
		bucket.tokens = min(bucket.tokens+elapsed*l.ratePerSecond, l.burst)
		bucket.last = now
	}

	if bucket.tokens < 1 {
		l.buckets[ip] = bucket
		return false
	}

	bucket.tokens--
	l.buckets[ip] = bucket
	return true
}

func (l *limiter) pruneLocked(now time.Time) {
	for ip, bucket := range l.buckets {
		if bucket.tokens+now.Sub(bucket.last).Seconds()*l.ratePerSecond >= l.burst {
			delete(l.buckets, ip)
		}
	}
}

func (l *limiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimitMiddleware enforces per-IP connection limits using a token bucket.
func RateLimitMiddleware(limitPerMinute, burst int, logger *log.Logger) wish.Middleware {
	if logger == nil {
		logger = logging.Discard()
	}
	l := newLimiter(limitPerMinute, burst)

	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			now := time.Now().UTC()
			ip := remoteIP(s.RemoteAddr())
			if !l.allow(ip, now) {
				logger.Warn("session throttled", "event", "rate_limit_throttled", "remote_ip", ip)
				_, _ = s.Write([]byte("rate limit exceeded\n"))
				return
			}
			next(s)
		}
	}
}

func remoteIP(remote net.Addr) string {
	if remote == nil {
		return "unknown"
	}

	host, _, err := net.SplitHostPort(remote.String())
	if err != nil {
		return remote.String()
	}

	if host == "" {
		return "unknown"
	}
	return host
}
