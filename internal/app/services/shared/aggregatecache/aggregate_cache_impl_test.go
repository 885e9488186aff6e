package aggregatecache

import (
	"context"
	"fmt"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/constvars"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRedisHash struct {
	hashes  map[string]map[string]int64
	deleted []string
}

func newFakeRedisHash() *fakeRedisHash {
	return &fakeRedisHash{hashes: make(map[string]map[string]int64)}
}

func (f *fakeRedisHash) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	return nil
}

func (f *fakeRedisHash) Get(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (f *fakeRedisHash) Delete(ctx context.Context, keys ...string) error {
	f.deleted = append(f.deleted, keys...)
	for _, key := range keys {
		delete(f.hashes, key)
	}
	return nil
}

func (f *fakeRedisHash) IncrementWithExpiry(ctx context.Context, key string, exp time.Duration) (int64, error) {
	return 0, nil
}

func (f *fakeRedisHash) HashIncrementBy(ctx context.Context, key, field string, delta int64, exp time.Duration) (int64, error) {
	if f.hashes[key] == nil {
		f.hashes[key] = make(map[string]int64)
	}
	f.hashes[key][field] += delta
	return f.hashes[key][field], nil
}

func (f *fakeRedisHash) HashSet(ctx context.Context, key, field string, value int64) error {
	if f.hashes[key] == nil {
		f.hashes[key] = make(map[string]int64)
	}
	f.hashes[key][field] = value
	return nil
}

func (f *fakeRedisHash) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	return true, nil
}

func approvedRecord() *models.FeeRecord {
	return &models.FeeRecord{
		ID:             "fr-1",
		BeneficiaryID:  "doctor-1",
		SettlementDate: time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC),
		Category:       models.CategoryGeneralDoctor,
		Nominal:        40_000,
		Total:          40_000,
		Status:         constvars.ValidationStatusApproved,
	}
}

func TestAggregateCacheIncrementDecrement(t *testing.T) {
	redis := newFakeRedisHash()
	cache := NewAggregateCache(redis, zap.NewNop(), 60)
	record := approvedRecord()

	require.NoError(t, cache.IncrementOnCreate(context.Background(), record))

	month := fmt.Sprintf(constvars.RedisKeyAggregateMonthFormat, "doctor-1", "2025-03")
	day := fmt.Sprintf(constvars.RedisKeyAggregateDayFormat, "doctor-1", "2025-03-09")
	for _, key := range []string{month, day} {
		assert.Equal(t, int64(1), redis.hashes[key][constvars.RedisFieldAggregateCount])
		assert.Equal(t, int64(40_000), redis.hashes[key][constvars.RedisFieldAggregateTotal])
		assert.Equal(t, int64(1), redis.hashes[key][constvars.RedisFieldAggregateApproved])
		assert.Zero(t, redis.hashes[key][constvars.RedisFieldAggregatePending])
	}

	require.NoError(t, cache.DecrementOnDelete(context.Background(), record))
	assert.Zero(t, redis.hashes[month][constvars.RedisFieldAggregateCount])
	assert.Zero(t, redis.hashes[month][constvars.RedisFieldAggregateTotal])

	// A second delete for the same record must floor at zero, not go
	// negative.
	require.NoError(t, cache.DecrementOnDelete(context.Background(), record))
	assert.Zero(t, redis.hashes[month][constvars.RedisFieldAggregateCount])
	assert.Zero(t, redis.hashes[month][constvars.RedisFieldAggregateTotal])
	assert.Zero(t, redis.hashes[day][constvars.RedisFieldAggregateApproved])
}

func TestAggregateCacheInvalidate(t *testing.T) {
	redis := newFakeRedisHash()
	cache := NewAggregateCache(redis, zap.NewNop(), 60)

	// Two dates inside the same month collapse to one month key; each
	// date still drops its own day bucket.
	err := cache.Invalidate(context.Background(), "doctor-1",
		time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	assert.Len(t, redis.deleted, 6)
	assert.Contains(t, redis.deleted, fmt.Sprintf(constvars.RedisKeySummaryFormat, "doctor-1"))
	assert.Contains(t, redis.deleted, fmt.Sprintf(constvars.RedisKeyAggregateMonthFormat, "doctor-1", "2025-03"))
	assert.Contains(t, redis.deleted, fmt.Sprintf(constvars.RedisKeyAggregateMonthFormat, "doctor-1", "2025-04"))
	assert.Contains(t, redis.deleted, fmt.Sprintf(constvars.RedisKeyAggregateDayFormat, "doctor-1", "2025-03-09"))
	assert.Contains(t, redis.deleted, fmt.Sprintf(constvars.RedisKeyAggregateDayFormat, "doctor-1", "2025-03-21"))
	assert.Contains(t, redis.deleted, fmt.Sprintf(constvars.RedisKeyAggregateDayFormat, "doctor-1", "2025-04-01"))
}
