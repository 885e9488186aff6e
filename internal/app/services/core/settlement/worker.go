package settlement

import (
	"context"
	"fmt"
	"jaspel-service/internal/app/config"
	"jaspel-service/internal/app/contracts"
	"jaspel-service/internal/app/services/shared/settlementqueue"
	"jaspel-service/internal/pkg/constvars"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Worker drains the settlement queue on a minute tick with at-least-once
// semantics. One instance runs per tick cluster-wide, guarded by a redis
// lock.
type Worker struct {
	log      *zap.Logger
	cfg      *config.InternalConfig
	locker   contracts.LockerService
	queue    *settlementqueue.Service
	usecase  Usecase
	archiver contracts.ObjectArchiver
	stop     chan struct{}
}

func NewWorker(
	log *zap.Logger,
	cfg *config.InternalConfig,
	lockerService contracts.LockerService,
	queue *settlementqueue.Service,
	usecase Usecase,
	archiver contracts.ObjectArchiver,
) *Worker {
	return &Worker{
		log:      log,
		cfg:      cfg,
		locker:   lockerService,
		queue:    queue,
		usecase:  usecase,
		archiver: archiver,
		stop:     make(chan struct{}),
	}
}

// Start begins the ticker loop and returns a stop function.
func (w *Worker) Start(ctx context.Context) (stop func()) {
	ticker := time.NewTicker(time.Minute)
	stopped := make(chan struct{})

	fmt.Println("Settlement worker started")

	go func() {
		defer close(stopped)
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-w.stop:
				ticker.Stop()
				return
			case now := <-ticker.C:
				w.runOnce(ctx, now)
			}
		}
	}()

	return func() {
		close(w.stop)
	}
}

func (w *Worker) runOnce(ctx context.Context, now time.Time) {
	w.log.Info("settlement.worker.runOnce tick", zap.Time("now", now))

	nextMinute := now.Truncate(time.Minute).Add(time.Minute)
	ttl := time.Until(nextMinute) - 1*time.Second
	if ttl < 1*time.Second {
		ttl = 1 * time.Second
	}
	acquired, lockValue, err := w.locker.TryLock(ctx, constvars.RedisKeySettlementWorkerLock, ttl)
	if err != nil {
		w.log.Info("settlement worker lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Warn("settlement worker lock not acquired; another instance is running")
		return
	}
	defer func() {
		if err := w.locker.Unlock(ctx, constvars.RedisKeySettlementWorkerLock, lockValue); err != nil {
			w.log.Error("settlement worker unlock failed", zap.Error(err))
		}
	}()

	max := w.cfg.Jaspel.SettlementMaxQueue
	if max <= 0 {
		max = 1
	}
	out, err := w.queue.FetchN(ctx, &settlementqueue.FetchNInput{Max: max})
	if err != nil {
		w.log.Info("settlement queue.FetchN error", zap.Error(err))
		return
	}
	w.log.Info("settlement queue.FetchN success", zap.Int("fetched_count", len(out.Items)))

	for _, item := range out.Items {
		w.processItem(ctx, item)
	}
}

func (w *Worker) processItem(ctx context.Context, item settlementqueue.QueuedItem) {
	msg := item.Message

	timeout := time.Duration(w.cfg.Jaspel.SettlementJobTimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	err := w.usecase.ProcessSettlement(jobCtx, msg.PatientCountID)
	cancel()

	if err == nil {
		if _, ackErr := w.queue.AckMessage(ctx, &settlementqueue.AckMessageInput{DeliveryTag: item.DeliveryTag}); ackErr != nil {
			w.log.Info("settlement ack failed after success",
				zap.String(constvars.LoggingMessageIDKey, msg.ID),
				zap.Error(ackErr),
			)
		}
		return
	}

	w.log.Error("settlement job failed",
		zap.String(constvars.LoggingMessageIDKey, msg.ID),
		zap.String(constvars.LoggingPatientCountIDKey, msg.PatientCountID),
		zap.Int(constvars.LoggingFailedCountKey, msg.FailedCount),
		zap.Error(err),
	)

	msg.FailedCount++
	maxAttempts := w.cfg.Jaspel.SettlementMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if msg.FailedCount >= maxAttempts {
		w.deadLetter(ctx, item, msg, err)
		return
	}

	if _, reErr := w.queue.Reenqueue(ctx, &settlementqueue.ReenqueueInput{Message: msg}); reErr != nil {
		w.log.Info("settlement reenqueue failed",
			zap.String(constvars.LoggingMessageIDKey, msg.ID),
			zap.Error(reErr),
		)
		return
	}
	_, _ = w.queue.AckMessage(ctx, &settlementqueue.AckMessageInput{DeliveryTag: item.DeliveryTag})
	w.log.Info("settlement job requeued for retry",
		zap.String(constvars.LoggingMessageIDKey, msg.ID),
		zap.Int(constvars.LoggingFailedCountKey, msg.FailedCount),
	)
}

// deadLetter moves an exhausted job to the DLQ and archives the payload
// for manual reconciliation. A settlement obligation that cannot be met
// automatically must still leave a paper trail.
func (w *Worker) deadLetter(ctx context.Context, item settlementqueue.QueuedItem, msg settlementqueue.SettlementQueueMessage, jobErr error) {
	if _, err := w.queue.EnqueueToDeadQueue(ctx, &settlementqueue.EnqueueToDLQInput{Message: msg}); err != nil {
		w.log.Error("settlement enqueue to DLQ failed",
			zap.String(constvars.LoggingMessageIDKey, msg.ID),
			zap.Error(err),
		)
		return
	}
	_, _ = w.queue.AckMessage(ctx, &settlementqueue.AckMessageInput{DeliveryTag: item.DeliveryTag})

	payload, err := json.Marshal(struct {
		Message   settlementqueue.SettlementQueueMessage `json:"message"`
		LastError string                                 `json:"last_error"`
		FailedAt  time.Time                              `json:"failed_at"`
	}{Message: msg, LastError: jobErr.Error(), FailedAt: time.Now()})
	if err != nil {
		w.log.Error("settlement DLQ archive marshal failed",
			zap.String(constvars.LoggingMessageIDKey, msg.ID),
			zap.Error(err),
		)
		return
	}

	objectName := fmt.Sprintf("settlements/%s/%s.json", time.Now().Format("2006-01-02"), msg.ID)
	if err := w.archiver.Archive(ctx, objectName, payload); err != nil {
		w.log.Error("settlement DLQ archive failed",
			zap.String(constvars.LoggingMessageIDKey, msg.ID),
			zap.Error(err),
		)
		return
	}

	w.log.Error("settlement job permanently failed; dead-lettered and archived",
		zap.String(constvars.LoggingMessageIDKey, msg.ID),
		zap.String(constvars.LoggingPatientCountIDKey, msg.PatientCountID),
		zap.Int(constvars.LoggingFailedCountKey, msg.FailedCount),
	)
}
