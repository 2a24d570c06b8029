package ports

import "context"

// RateLimiter decide si una acción identificada por key puede ejecutarse ahora.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
