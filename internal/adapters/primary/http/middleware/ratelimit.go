package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Buckets idle for this many windows are dropped.
const idleWindows = 5

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. Each bucket holds limit
// tokens and refills at limit per window.
type RateLimiter struct {
	limit  int
	window time.Duration

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limit:    limit,
		window:   window,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := rl.now()
		allowed, remaining, wait := rl.take(c.ClientIP(), now)

		h := c.Writer.Header()
		h.Set("X-Rate-Limit-Limit", strconv.Itoa(rl.limit))

		if !allowed {
			secs := int(math.Ceil(wait.Seconds()))
			if secs < 1 {
				secs = 1
			}
			h.Set("Retry-After", strconv.Itoa(secs))
			h.Set("X-Rate-Limit-Remaining", "0")
			h.Set("X-Rate-Limit-Reset", strconv.FormatInt(now.Add(wait).Unix(), 10))

			log.WithFields(log.Fields{
				"client_ip": c.ClientIP(),
				"path":      c.Request.URL.Path,
			}).Warn("rate limit exceeded")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "too many requests",
				"code":       "RATE_LIMITED",
				"retryAfter": secs,
			})
			return
		}

		h.Set("X-Rate-Limit-Remaining", strconv.Itoa(remaining))
		h.Set("X-Rate-Limit-Reset", strconv.FormatInt(now.Add(wait).Unix(), 10))
		c.Next()
	}
}

// take consumes one token for key. On success the duration is how long until
// the bucket is full again; when the bucket is empty it is how long until a
// token is available.
func (rl *RateLimiter) take(key string, now time.Time) (bool, int, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.sweep(now)

	every := rl.window / time.Duration(rl.limit)
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(every), rl.limit)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	if v.limiter.AllowN(now, 1) {
		tokens := v.limiter.TokensAt(now)
		remaining := int(math.Floor(tokens))
		if remaining < 0 {
			remaining = 0
		}
		untilFull := time.Duration((float64(rl.limit) - tokens) * float64(every)).Round(time.Second)
		return true, remaining, untilFull
	}

	r := v.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return false, 0, delay
}

func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	rl.lastSweep = now

	cutoff := now.Add(-idleWindows * rl.window)
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
		}
	}
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}
