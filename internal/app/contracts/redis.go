package contracts

import (
	"context"
	"time"
)

type RedisRepository interface {
	Set(ctx context.Context, key string, value interface{}, exp time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	IncrementWithExpiry(ctx context.Context, key string, exp time.Duration) (int64, error)
	HashIncrementBy(ctx context.Context, key, field string, delta int64, exp time.Duration) (int64, error)
	HashSet(ctx context.Context, key, field string, value int64) error
	TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error)
}

type LockerService interface {
	TryLock(ctx context.Context, key string, expiration time.Duration) (acquired bool, lockValue string, err error)
	Unlock(ctx context.Context, key, lockValue string) error
}
