package contracts

import (
	"context"
	"jaspel-service/internal/app/models"
)

// EventPublisher hands engine events to the external notification
// dispatcher over a message queue. Publishing is best-effort from the
// caller's point of view: validation outcomes never roll back because a
// notification could not be queued.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}
