package integrity

import (
	"context"
	"fmt"
	"jaspel-service/internal/app/config"
	"jaspel-service/internal/app/contracts"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/exceptions"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Known placeholder nominals left behind by manual testing. Creation with
// one of these is blocked outright in production.
var dummyPatternBlacklist = map[int64]bool{
	111111:  true,
	123123:  true,
	123456:  true,
	222222:  true,
	234567:  true,
	333333:  true,
	456456:  true,
	999999:  true,
	1111111: true,
	1234567: true,
}

type guard struct {
	feeRecordRepo  contracts.FeeRecordRepository
	redisRepo      contracts.RedisRepository
	log            *zap.Logger
	env            string
	nominalCeiling int64
	// alertLimiter throttles the rapid-creation alert log so a burst of
	// suspicious writes cannot flood the log sink.
	alertLimiter *rate.Limiter
	now          func() time.Time
}

func NewGuard(
	feeRecordRepository contracts.FeeRecordRepository,
	redisRepository contracts.RedisRepository,
	logger *zap.Logger,
	internalConfig *config.InternalConfig,
) Guard {
	ceiling := internalConfig.Jaspel.NominalCeiling
	if ceiling <= 0 {
		ceiling = constvars.DefaultNominalCeiling
	}
	return &guard{
		feeRecordRepo:  feeRecordRepository,
		redisRepo:      redisRepository,
		log:            logger,
		env:            internalConfig.App.Env,
		nominalCeiling: ceiling,
		alertLimiter:   rate.NewLimiter(rate.Every(time.Minute), 3),
		now:            time.Now,
	}
}

func (g *guard) ValidateCreate(ctx context.Context, actor *models.Actor, record *models.FeeRecord) error {
	g.applyCreateDefaults(actor, record)

	if record.Nominal <= 0 || record.Nominal > g.nominalCeiling {
		return exceptions.ErrAmountOutOfRange(record.Nominal, g.nominalCeiling)
	}

	now := g.now()
	earliest := now.AddDate(0, 0, -constvars.SettlementDateMaxPastDays)
	latest := now.AddDate(0, 0, constvars.SettlementDateMaxFutureDays)
	if record.SettlementDate.Before(earliest) || record.SettlementDate.After(latest) {
		return exceptions.ErrDateOutOfRange(record.SettlementDate)
	}

	if !record.Category.IsValid() {
		return exceptions.ErrInvalidCategory(string(record.Category))
	}

	return g.detectAnomalies(ctx, record)
}

func (g *guard) applyCreateDefaults(actor *models.Actor, record *models.FeeRecord) {
	if record.Status == "" {
		record.Status = constvars.ValidationStatusPending
	}
	if record.Total == 0 {
		record.Total = record.Nominal
	}
	if record.CreatedBy == "" && actor != nil {
		record.CreatedBy = actor.ID
	}
}

// detectAnomalies flags suspicious writes. Flags are logged, not fatal,
// with one exception: a blacklisted placeholder nominal blocks creation in
// production.
func (g *guard) detectAnomalies(ctx context.Context, record *models.FeeRecord) error {
	var flags []string

	if record.Nominal >= constvars.RoundNumberMinimumNominal && record.Nominal%constvars.RoundNumberDivisor == 0 {
		flags = append(flags, constvars.AnomalyFlagRoundNumber)
	}

	if dummyPatternBlacklist[record.Nominal] {
		flags = append(flags, constvars.AnomalyFlagDummyPattern)
		if g.env == constvars.AppEnvProduction {
			g.logFlags(record, flags)
			return exceptions.ErrSuspectedTestData(record.Nominal)
		}
	}

	if record.Category == models.CategorySpecialConsultation && record.ProcedureID == "" {
		flags = append(flags, constvars.AnomalyFlagOrphanConsultation)
	}

	if flag, err := g.checkRapidCreation(ctx, record); err != nil {
		// The rolling counter is advisory; a redis failure must not block
		// the write.
		g.log.Warn("rapid-creation counter unavailable", zap.Error(err))
	} else if flag {
		flags = append(flags, constvars.AnomalyFlagRapidCreation)
	}

	duplicate, err := g.feeRecordRepo.FindDuplicateShape(ctx, record)
	if err != nil {
		return err
	}
	if duplicate {
		flags = append(flags, constvars.AnomalyFlagPossibleDuplicate)
	}

	if len(flags) > 0 {
		g.logFlags(record, flags)
	}
	return nil
}

func (g *guard) checkRapidCreation(ctx context.Context, record *models.FeeRecord) (bool, error) {
	if record.CreatedBy == "" {
		return false, nil
	}

	window := time.Duration(constvars.RapidCreationWindowInMinutes) * time.Minute
	bucket := g.now().Unix() / int64(window.Seconds())
	key := fmt.Sprintf(constvars.RedisKeyRapidCreationFormat, record.CreatedBy, bucket)

	// Buckets live twice the window so the previous one is still readable.
	count, err := g.redisRepo.IncrementWithExpiry(ctx, key, 2*window)
	if err != nil {
		return false, err
	}

	// Summing the current and previous buckets approximates a trailing
	// window, so a burst split across a bucket boundary still counts.
	previousKey := fmt.Sprintf(constvars.RedisKeyRapidCreationFormat, record.CreatedBy, bucket-1)
	raw, err := g.redisRepo.Get(ctx, previousKey)
	if err != nil {
		return false, err
	}
	if raw != "" {
		if previous, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
			count += previous
		}
	}

	if count > constvars.RapidCreationAlertThreshold && g.alertLimiter.Allow() {
		g.log.Error("rapid fee-record creation exceeds alert threshold",
			zap.String(constvars.LoggingBeneficiaryIDKey, record.BeneficiaryID),
			zap.String("created_by", record.CreatedBy),
			zap.Int64("count_in_window", count),
		)
	}
	return count > constvars.RapidCreationFlagThreshold, nil
}

func (g *guard) logFlags(record *models.FeeRecord, flags []string) {
	g.log.Warn("fee record flagged by anomaly detection",
		zap.Strings(constvars.LoggingAnomalyFlagsKey, flags),
		zap.String(constvars.LoggingBeneficiaryIDKey, record.BeneficiaryID),
		zap.String(constvars.LoggingCategoryKey, string(record.Category)),
		zap.Int64(constvars.LoggingNominalKey, record.Nominal),
	)
}

func (g *guard) ValidateUpdate(ctx context.Context, actor *models.Actor, original, updated *models.FeeRecord, opts UpdateOptions) error {
	// A nominal change on a settled record is rejected no matter what else
	// the update carries, bypass included.
	if updated.Nominal != original.Nominal && original.Status == constvars.ValidationStatusApproved {
		return exceptions.ErrRecordImmutable(original.ID)
	}

	if !opts.BypassImmutability {
		aged := original.CreatedAt.Before(g.now().AddDate(0, 0, -constvars.FeeRecordRetentionDays))
		if original.Status == constvars.ValidationStatusApproved || aged {
			return exceptions.ErrRecordImmutable(original.ID)
		}
	}

	if updated.Status == constvars.ValidationStatusApproved && original.Status != constvars.ValidationStatusApproved {
		if !actor.HasCapability(constvars.CapabilityValidateFee) {
			return exceptions.ErrUnauthorizedCapability(constvars.CapabilityValidateFee)
		}
		validatedAt := g.now()
		updated.ValidatedBy = actor.ID
		updated.ValidatedAt = &validatedAt
	}

	return nil
}

func (g *guard) ValidateDelete(ctx context.Context, original *models.FeeRecord) error {
	if original.Status == constvars.ValidationStatusApproved {
		return exceptions.ErrRecordImmutable(original.ID)
	}
	return nil
}
