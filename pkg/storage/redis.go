package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis stores each slot as a plain string key. Keys never expire.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

func NewRedis(rdb *redis.Client, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

// OpenRedis connects and pings the server before returning.
func OpenRedis(ctx context.Context, addr, password string, db int, prefix string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return NewRedis(rdb, prefix), nil
}

func (r *Redis) key(name string) string { return r.prefix + name }

func (r *Redis) Get(ctx context.Context, name string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, r.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", name, err)
	}
	return b, nil
}

func (r *Redis) Put(ctx context.Context, name string, blob []byte) error {
	if err := r.rdb.Set(ctx, r.key(name), blob, 0).Err(); err != nil {
		return fmt.Errorf("writing slot %s: %w", name, err)
	}
	return nil
}

func (r *Redis) Close() error { return r.rdb.Close() }
