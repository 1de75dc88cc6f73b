package cache

import (
	"context"
	"time"
)

// NoopStore no guarda nada: toda lectura es un miss
type NoopStore struct{}

var _ Store = NoopStore{}

func (NoopStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NoopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NoopStore) Delete(context.Context, ...string) error { return nil }

func (NoopStore) Exists(context.Context, string) (bool, error) { return false, nil }
