// Package ratelimit limita las generaciones de presupuesto por tenant.
// MemoryLimiter vale para una sola instancia; RedisLimiter comparte el contador entre réplicas.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jhoicas/slick-api/internal/application/ports"
)

var _ ports.RateLimiter = (*MemoryLimiter)(nil)

// DefaultPeriod ventana cuando la configuración no trae una válida.
const DefaultPeriod = time.Minute

// maxKeys tope de limitadores en memoria; al superarlo se reinicia el mapa.
const maxKeys = 10000

// MemoryLimiter token bucket por clave: limit eventos por period, con ráfaga de limit.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

// NewMemoryLimiter crea el limitador (ej. 5 por minuto).
func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	limit, period = normalize(limit, period)
	return &MemoryLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(period / time.Duration(limit)),
		burst:    limit,
		now:      time.Now,
	}
}

func normalize(limit int, period time.Duration) (int, time.Duration) {
	if limit <= 0 {
		limit = 1
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	return limit, period
}

func (l *MemoryLimiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxKeys {
			l.limiters = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

// Allow consume un token de key. Nunca devuelve error.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	return l.getLimiter(key).AllowN(l.now(), 1), nil
}
