package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore guarda los valores en memoria del proceso (go-cache)
type MemoryStore struct {
	c *gocache.Cache
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore crea un store en memoria; cleanup es el intervalo de purga
func NewMemoryStore(cleanup time.Duration) *MemoryStore {
	return &MemoryStore{c: gocache.New(gocache.NoExpiration, cleanup)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}

	data, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}

	return data, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	// Copia: el llamador puede reutilizar el slice
	data := make([]byte, len(value))
	copy(data, value)

	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	s.c.Set(key, data, ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.c.Delete(key)
	}
	return nil
}

func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.c.Get(key)
	return ok, nil
}

// Flush vacía el store
func (s *MemoryStore) Flush() {
	s.c.Flush()
}
