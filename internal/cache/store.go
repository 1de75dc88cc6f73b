// Package cache implementa la capa de caché del dashboard: backends
// intercambiables detrás de Store y el envoltorio Aside que nunca falla.
package cache

import (
	"context"
	"time"
)

// Store es un almacén clave/valor con TTL. Los errores son de transporte;
// una clave ausente no es error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Backends soportados
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)
