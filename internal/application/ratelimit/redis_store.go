package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ AttemptStore = (*RedisStore)(nil)

// RedisStore implementación compartida de AttemptStore para despliegues
// multi-instancia: INCR atómico + TTL, sin la carrera best-effort del store
// en memoria. La ventana vive en el TTL de la clave de conteo y el castigo
// en una clave hermana ":lock".
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore construye el store sobre un cliente go-redis. El prefijo
// separa los espacios de claves de los distintos contadores (el gate de
// volumen y el lockout de OTP no comparten conteo).
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "attempts"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(key string) string {
	return s.prefix + ":" + key
}

func (s *RedisStore) lockKey(key string) string {
	return s.prefix + ":" + key + ":lock"
}

// Get reconstruye el registro desde el conteo y los TTLs.
func (s *RedisStore) Get(key string) (Attempt, bool, error) {
	ctx := context.Background()
	now := time.Now()

	count, err := s.client.Get(ctx, s.key(key)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Attempt{}, false, fmt.Errorf("redis get: %w", err)
	}
	countMissing := errors.Is(err, redis.Nil)

	lockTTL, err := s.client.PTTL(ctx, s.lockKey(key)).Result()
	if err != nil {
		return Attempt{}, false, fmt.Errorf("redis pttl: %w", err)
	}

	a := Attempt{Count: count}
	if lockTTL > 0 {
		a.LockedUntil = now.Add(lockTTL)
	}
	if countMissing && lockTTL <= 0 {
		return Attempt{}, false, nil
	}
	if !countMissing {
		if windowTTL, err := s.client.PTTL(ctx, s.key(key)).Result(); err == nil && windowTTL > 0 {
			a.WindowReset = now.Add(windowTTL)
		}
	}
	return a, true, nil
}

// Increment incrementa de forma atómica; la primera cuenta fija la ventana.
func (s *RedisStore) Increment(key string, window time.Duration) (Attempt, error) {
	ctx := context.Background()
	count, err := s.client.Incr(ctx, s.key(key)).Result()
	if err != nil {
		return Attempt{}, fmt.Errorf("redis incr: %w", err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, s.key(key), window).Err(); err != nil {
			return Attempt{}, fmt.Errorf("redis expire: %w", err)
		}
	}
	return Attempt{Count: int(count), WindowReset: time.Now().Add(window)}, nil
}

// Lock fija la clave de castigo con su TTL.
func (s *RedisStore) Lock(key string, lock time.Duration) error {
	if err := s.client.Set(context.Background(), s.lockKey(key), "1", lock).Err(); err != nil {
		return fmt.Errorf("redis lock: %w", err)
	}
	return nil
}

// Clear borra conteo y castigo.
func (s *RedisStore) Clear(key string) error {
	if err := s.client.Del(context.Background(), s.key(key), s.lockKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
