package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/invoice-studio-api/internal/application/dto"
)

// UserRateLimiter límite de peticiones por usuario autenticado (token bucket por usuario).
type UserRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewUserRateLimiter crea el limitador. rps <= 0 lo desactiva.
func NewUserRateLimiter(rps float64, burst int) *UserRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &UserRateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(rps),
		burst:    burst,
		ttl:      10 * time.Minute,
		now:      time.Now,
	}
}

func (rl *UserRateLimiter) get(userID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	e, ok := rl.limiters[userID]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[userID] = e
	}
	e.lastSeen = now
	return e.limiter
}

// Cleanup elimina los limitadores sin uso reciente; pensado para llamarse periódicamente.
func (rl *UserRateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-rl.ttl)
	removed := 0
	for id, e := range rl.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(rl.limiters, id)
			removed++
		}
	}
	return removed
}

// Middleware aplica el límite. Debe ir después de AuthMiddleware; sin usuario no limita.
func (rl *UserRateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if rl.rate <= 0 || userID == "" {
			return c.Next()
		}
		limiter := rl.get(userID)
		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		if !limiter.Allow() {
			c.Set("X-RateLimit-Remaining", "0")
			c.Set("Retry-After", "1")
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas peticiones, intenta de nuevo en un momento"})
		}
		c.Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		return c.Next()
	}
}
