package redis

import (
	"context"
	"jaspel-service/internal/app/contracts"
	"jaspel-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

type redisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) contracts.RedisRepository {
	return &redisRepository{client: client}
}

func (r *redisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	err = r.client.Set(ctx, key, jsonValue, exp).Err()
	if err != nil {
		return exceptions.ErrRedisSet(err)
	}
	return nil
}

func (r *redisRepository) Get(ctx context.Context, key string) (string, error) {
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	} else if err != nil {
		return "", exceptions.ErrRedisGet(err)
	}
	return data, nil
}

func (r *redisRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := r.client.Del(ctx, keys...).Err()
	if err != nil {
		return exceptions.ErrRedisDelete(err)
	}
	return nil
}

// IncrementWithExpiry bumps a counter and stamps the expiry only on the
// first increment, giving a fixed-window rolling counter.
func (r *redisRepository) IncrementWithExpiry(ctx context.Context, key string, exp time.Duration) (int64, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, exceptions.ErrRedisIncrement(err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, exp).Err(); err != nil {
			return count, exceptions.ErrRedisSet(err)
		}
	}
	return count, nil
}

func (r *redisRepository) HashIncrementBy(ctx context.Context, key, field string, delta int64, exp time.Duration) (int64, error) {
	value, err := r.client.HIncrBy(ctx, key, field, delta).Result()
	if err != nil {
		return 0, exceptions.ErrRedisIncrement(err)
	}
	if exp > 0 {
		if err := r.client.Expire(ctx, key, exp).Err(); err != nil {
			return value, exceptions.ErrRedisSet(err)
		}
	}
	return value, nil
}

func (r *redisRepository) HashSet(ctx context.Context, key, field string, value int64) error {
	if err := r.client.HSet(ctx, key, field, value).Err(); err != nil {
		return exceptions.ErrRedisSet(err)
	}
	return nil
}

func (r *redisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return false, exceptions.ErrCannotMarshalJSON(err)
	}

	acquired, err := r.client.SetNX(ctx, key, jsonValue, exp).Result()
	if err != nil {
		return false, exceptions.ErrRedisSet(err)
	}
	return acquired, nil
}
