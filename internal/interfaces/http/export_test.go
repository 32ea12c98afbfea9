package http

import "time"

// SetClock reemplaza el reloj del limitador (tests).
func (rl *UserRateLimiter) SetClock(now func() time.Time) { rl.now = now }

// Tracked número de usuarios con limitador activo.
func (rl *UserRateLimiter) Tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}
