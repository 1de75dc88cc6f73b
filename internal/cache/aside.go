package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/elsanchez/social-dashboard/internal/metrics"
)

// Aside envuelve un Store y traga sus errores: un fallo de lectura es un
// miss y los fallos de escritura o borrado solo se registran.
type Aside struct {
	store   Store
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewAside crea el envoltorio. logger y collector pueden ser nil.
func NewAside(store Store, logger *zap.Logger, collector *metrics.Collector) *Aside {
	if store == nil {
		store = NoopStore{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aside{store: store, logger: logger, metrics: collector}
}

// Get devuelve el valor crudo y si hubo hit
func (a *Aside) Get(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := a.store.Get(ctx, key)
	if err != nil {
		a.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		a.metrics.ObserveCacheLookup(Family(key), metrics.CacheError)
		return nil, false
	}

	if !ok {
		a.metrics.ObserveCacheLookup(Family(key), metrics.CacheMiss)
		return nil, false
	}

	a.metrics.ObserveCacheLookup(Family(key), metrics.CacheHit)
	return data, true
}

// Set guarda el valor; los errores se registran y se ignoran
func (a *Aside) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := a.store.Set(ctx, key, value, ttl); err != nil {
		a.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		a.metrics.ObserveCacheError("set")
	}
}

// Delete borra las claves; los errores se registran y se ignoran
func (a *Aside) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}

	if err := a.store.Delete(ctx, keys...); err != nil {
		a.logger.Warn("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
		a.metrics.ObserveCacheError("delete")
	}
}

// Exists indica si la clave está presente; un error cuenta como ausente
func (a *Aside) Exists(ctx context.Context, key string) bool {
	ok, err := a.store.Exists(ctx, key)
	if err != nil {
		a.logger.Warn("cache exists failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

// GetJSON decodifica el valor cacheado en dst. Un valor corrupto es un miss.
func (a *Aside) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	data, ok := a.Get(ctx, key)
	if !ok {
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		a.logger.Warn("cache value corrupt", zap.String("key", key), zap.Error(err))
		return false
	}

	return true
}

// SetJSON codifica v y lo guarda con el TTL dado
func (a *Aside) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		a.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	a.Set(ctx, key, data, ttl)
}
