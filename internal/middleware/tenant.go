package middleware

import (
	"context"
	"errors"

	"notes-service/internal/apperr"
	"notes-service/internal/model"
	"notes-service/internal/store"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TenantFinder is the slice of the store the tenant validator needs.
type TenantFinder interface {
	FindTenantBySlug(ctx context.Context, slug string) (*model.Tenant, error)
}

// ValidateTenant reconciles the :slug path parameter with the
// authenticated user's tenant.
//
// With a user attached, the path slug must equal the user's tenant
// slug exactly; an authenticated caller is bound to its own tenant no
// matter what the path claims. Without a user (public route) the slug
// is resolved by lookup alone and the tenant attached to context. The
// asymmetry is intentional: only unauthenticated flows trust the path.
func ValidateTenant(tenants TenantFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)
			slug := c.Param("slug")

			if user, ok := UserFromContext(c); ok {
				if user.Tenant.Slug != slug {
					log.Warn("Cross-tenant access rejected",
						zap.String("path_slug", slug),
						zap.String("user_tenant", user.Tenant.Slug))
					prometheus.RecordAuthError("cross_tenant_access")
					return reject(c, apperr.Forbidden("access denied to this tenant"))
				}
				return next(c)
			}

			tenant, err := tenants.FindTenantBySlug(c.Request().Context(), slug)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					prometheus.RecordAuthError("unknown_tenant")
					return reject(c, apperr.NotFound("tenant not found"))
				}
				log.Error("Tenant lookup failed", zap.Error(err))
				prometheus.RecordAuthError("store_error")
				return reject(c, &apperr.Error{Kind: apperr.KindInternal, Message: "internal error"})
			}

			SetTenant(c, tenant)
			return next(c)
		}
	}
}
