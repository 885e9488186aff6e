package aggregatecache

import (
	"context"
	"fmt"
	"jaspel-service/internal/app/contracts"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/constvars"
	"time"

	"go.uber.org/zap"
)

// aggregateCache keeps advisory per-beneficiary fee aggregates in redis
// hashes, bucketed by settlement month and day. Counters drift under
// crashes; the fee record store is the source of truth and every value can
// be recomputed from it.
type aggregateCache struct {
	redisRepo contracts.RedisRepository
	log       *zap.Logger
	ttl       time.Duration
}

func NewAggregateCache(redisRepo contracts.RedisRepository, logger *zap.Logger, ttlInMinutes int) contracts.AggregateCache {
	if ttlInMinutes <= 0 {
		ttlInMinutes = 60
	}
	return &aggregateCache{
		redisRepo: redisRepo,
		log:       logger,
		ttl:       time.Duration(ttlInMinutes) * time.Minute,
	}
}

func monthKey(beneficiaryID string, t time.Time) string {
	return fmt.Sprintf(constvars.RedisKeyAggregateMonthFormat, beneficiaryID, t.Format("2006-01"))
}

func dayKey(beneficiaryID string, t time.Time) string {
	return fmt.Sprintf(constvars.RedisKeyAggregateDayFormat, beneficiaryID, t.Format("2006-01-02"))
}

func statusField(status string) string {
	if status == constvars.ValidationStatusApproved {
		return constvars.RedisFieldAggregateApproved
	}
	return constvars.RedisFieldAggregatePending
}

func (c *aggregateCache) IncrementOnCreate(ctx context.Context, record *models.FeeRecord) error {
	for _, key := range []string{
		monthKey(record.BeneficiaryID, record.SettlementDate),
		dayKey(record.BeneficiaryID, record.SettlementDate),
	} {
		if err := c.apply(ctx, key, record, 1); err != nil {
			return err
		}
	}
	return nil
}

func (c *aggregateCache) DecrementOnDelete(ctx context.Context, record *models.FeeRecord) error {
	for _, key := range []string{
		monthKey(record.BeneficiaryID, record.SettlementDate),
		dayKey(record.BeneficiaryID, record.SettlementDate),
	} {
		if err := c.apply(ctx, key, record, -1); err != nil {
			return err
		}
	}
	return nil
}

// apply does the read-modify-write for one bucket. direction is +1 on
// create and -1 on delete; decrements floor at zero.
func (c *aggregateCache) apply(ctx context.Context, key string, record *models.FeeRecord, direction int64) error {
	fields := map[string]int64{
		constvars.RedisFieldAggregateCount: 1,
		constvars.RedisFieldAggregateTotal: record.Total,
		statusField(record.Status):         1,
	}
	for field, delta := range fields {
		value, err := c.redisRepo.HashIncrementBy(ctx, key, field, direction*delta, c.ttl)
		if err != nil {
			return err
		}
		if value < 0 {
			if err := c.redisRepo.HashSet(ctx, key, field, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *aggregateCache) Invalidate(ctx context.Context, beneficiaryID string, months ...time.Time) error {
	seen := make(map[string]bool)
	keys := []string{fmt.Sprintf(constvars.RedisKeySummaryFormat, beneficiaryID)}
	for _, month := range months {
		// Callers pass full dates, so the day bucket of each affected
		// date goes away together with its month bucket.
		for _, key := range []string{monthKey(beneficiaryID, month), dayKey(beneficiaryID, month)} {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}

	c.log.Debug("invalidating aggregate caches",
		zap.String(constvars.LoggingBeneficiaryIDKey, beneficiaryID),
		zap.Int("key_count", len(keys)),
	)
	return c.redisRepo.Delete(ctx, keys...)
}
