package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiters idle for longer than this are dropped on the next sweep.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters keeps one token bucket per client IP.
type clientLimiters struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	perMinute int
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiters(perMinute int) *clientLimiters {
	if perMinute < 1 {
		perMinute = 1
	}
	return &clientLimiters{
		clients:   make(map[string]*clientLimiter),
		perMinute: perMinute,
		now:       time.Now,
	}
}

func (s *clientLimiters) allow(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) > limiterIdleTTL {
		for key, cl := range s.clients {
			if now.Sub(cl.lastSeen) > limiterIdleTTL {
				delete(s.clients, key)
			}
		}
		s.lastSweep = now
	}

	cl, ok := s.clients[ip]
	if !ok {
		// perMinute requests per minute, bursting up to the same amount.
		every := rate.Every(time.Minute / time.Duration(s.perMinute))
		cl = &clientLimiter{limiter: rate.NewLimiter(every, s.perMinute)}
		s.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// RateLimitMiddleware rejects clients that exceed perMinute webhook calls.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	limiters := newClientLimiters(perMinute)
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !limiters.allow(ip) {
			zap.L().Warn("RateLimitMiddleware: limit exceeded",
				zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
