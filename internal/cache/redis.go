package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// RedisOptions configura la conexión a Redis
type RedisOptions struct {
	Host     string
	Port     int
	DB       int
	Password string

	// Cero usa los valores por defecto de NewRedisStore
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RedisStore guarda los valores en Redis detrás de un circuit breaker
type RedisStore struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore crea el cliente; no verifica la conexión
func NewRedisStore(opts RedisOptions, logger *zap.Logger) *RedisStore {
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 2 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 500 * time.Millisecond
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 500 * time.Millisecond
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})

	return newRedisStore(client, logger)
}

func newRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &RedisStore{client: client, breaker: breaker}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := s.breaker.Execute(func() (interface{}, error) {
		data, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil // ausente: no cuenta como fallo
		}
		return data, err
	})
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	data, _ := res.([]byte)
	if data == nil {
		return nil, false, nil
	}

	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, key, value, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, keys...).Err()
	})
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.Exists(ctx, key).Result()
	})
	if err != nil {
		return false, fmt.Errorf("redis exists %s: %w", key, err)
	}

	n, _ := res.(int64)
	return n > 0, nil
}

// Ping verifica la conexión
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close cierra el cliente
func (s *RedisStore) Close() error {
	return s.client.Close()
}
