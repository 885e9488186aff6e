package utils

import (
	"context"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/constvars"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return uuid.NewString()
}

// ActorFromContext returns the authenticated actor, or nil for
// unauthenticated requests.
func ActorFromContext(ctx context.Context) *models.Actor {
	actor, _ := ctx.Value(constvars.CONTEXT_ACTOR_KEY).(*models.Actor)
	return actor
}

func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	return requestID
}
