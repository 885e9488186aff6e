package contracts

import "context"

// SettlementEnqueuer queues a daily patient-count settlement job. The
// worker consuming the queue re-checks all preconditions, so enqueueing is
// always safe to repeat.
type SettlementEnqueuer interface {
	Enqueue(ctx context.Context, patientCountID string) error
}

// ObjectArchiver stores opaque payloads for manual reconciliation, used
// for settlement jobs that exhausted their retry budget.
type ObjectArchiver interface {
	Archive(ctx context.Context, objectName string, payload []byte) error
}
