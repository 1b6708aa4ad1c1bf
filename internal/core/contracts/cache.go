package contracts

import (
	"context"
	"time"
)

// Cache is the key-value layer used for derived data (friend rosters, group
// lists) and the live presence mirror. Everything behind it is expendable and
// reconstructable from the durable store; callers must treat failures as
// non-fatal outside of explicit read paths.
type Cache interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error

	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}
