package utils

import (
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/exceptions"

	"github.com/golang-jwt/jwt/v4"
)

// ParseActorJWT verifies the bearer token and maps its claims onto an
// Actor. Capabilities travel in the "capabilities" claim as a string list.
func ParseActorJWT(tokenString, secret string) (*models.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, exceptions.BuildNewCustomError(nil, constvars.StatusUnauthorized, constvars.ErrClientNotAuthorized, constvars.ErrDevAuthSigningMethod)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, exceptions.ErrTokenInvalidOrExpired(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, exceptions.ErrTokenInvalidOrExpired(nil)
	}

	actor := &models.Actor{}
	if sub, ok := claims["sub"].(string); ok {
		actor.ID = sub
	}
	if name, ok := claims["name"].(string); ok {
		actor.Name = name
	}
	if rawCaps, ok := claims["capabilities"].([]interface{}); ok {
		for _, rawCap := range rawCaps {
			if capability, ok := rawCap.(string); ok {
				actor.Capabilities = append(actor.Capabilities, capability)
			}
		}
	}
	if actor.ID == "" {
		return nil, exceptions.ErrTokenInvalidOrExpired(nil)
	}
	return actor, nil
}
