package middlewares

import (
	"context"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/exceptions"
	"jaspel-service/internal/pkg/utils"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Authenticate requires a valid bearer token and places the resolved actor
// in the request context. Capability checks happen in the usecases: a
// token without validate_fee can still read-only preview.
func (m *Middlewares) Authenticate(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(constvars.HeaderAuthorization)
			if header == "" {
				utils.BuildErrorResponse(logger, w, exceptions.ErrTokenMissing(nil))
				return
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			if tokenString == header || tokenString == "" {
				utils.BuildErrorResponse(logger, w, exceptions.ErrTokenMissing(nil))
				return
			}

			actor, err := utils.ParseActorJWT(tokenString, m.InternalConfig.JWT.Secret)
			if err != nil {
				utils.BuildErrorResponse(logger, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), constvars.CONTEXT_ACTOR_KEY, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
