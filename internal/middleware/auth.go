package middleware

import (
	"context"
	"errors"
	"strings"

	"notes-service/internal/apperr"
	"notes-service/internal/model"
	"notes-service/internal/store"
	"notes-service/pkg/jwtutil"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserFinder is the slice of the store the authenticator needs.
type UserFinder interface {
	FindUserByID(ctx context.Context, id uint) (*model.User, error)
}

// Authenticate validates the bearer token from the Authorization
// header, re-resolves the user (with its tenant joined) and attaches
// both to the request context. Every later check in the chain assumes
// this ran first.
func Authenticate(codec *jwtutil.Codec, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return reject(c, apperr.Unauthenticated("missing authorization token"))
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return reject(c, apperr.Unauthenticated("invalid authorization format, expected Bearer token"))
			}

			claims, err := codec.Verify(parts[1])
			if err != nil {
				log.Warn("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return reject(c, apperr.Unauthenticated("invalid or expired token"))
			}

			user, err := users.FindUserByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					log.Warn("Token user not found", zap.Uint("user_id", claims.UserID))
					prometheus.RecordAuthError("user_not_found")
					return reject(c, apperr.Unauthenticated("user not found"))
				}
				log.Error("User lookup failed", zap.Error(err))
				prometheus.RecordAuthError("store_error")
				return reject(c, &apperr.Error{Kind: apperr.KindInternal, Message: "internal error"})
			}

			if !user.IsActive {
				log.Warn("Deactivated user rejected", zap.Uint("user_id", user.ID))
				prometheus.RecordAuthError("user_deactivated")
				return reject(c, apperr.Unauthenticated("account deactivated"))
			}

			SetUser(c, user)
			SetTenant(c, &user.Tenant)

			log.Debug("Request authenticated",
				zap.Uint("user_id", user.ID),
				zap.String("role", user.Role),
				zap.String("tenant_slug", user.Tenant.Slug))

			return next(c)
		}
	}
}
