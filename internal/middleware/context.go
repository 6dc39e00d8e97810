package middleware

import (
	"notes-service/internal/apperr"
	"notes-service/internal/model"

	"github.com/labstack/echo/v4"
)

// Context keys for the records the chain attaches.
const (
	userContextKey   = "auth_user"
	tenantContextKey = "auth_tenant"
)

// SetUser attaches the authenticated user to the request context.
func SetUser(c echo.Context, u *model.User) {
	c.Set(userContextKey, u)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(userContextKey).(*model.User)
	return u, ok
}

// SetTenant attaches the resolved tenant to the request context.
func SetTenant(c echo.Context, t *model.Tenant) {
	c.Set(tenantContextKey, t)
}

// TenantFromContext returns the resolved tenant, if any.
func TenantFromContext(c echo.Context) (*model.Tenant, bool) {
	t, ok := c.Get(tenantContextKey).(*model.Tenant)
	return t, ok
}

// reject terminates the request with the status bound to the error
// kind. Every failure in the chain is terminal, nothing retries.
func reject(c echo.Context, err *apperr.Error) error {
	return c.JSON(err.HTTPStatus(), echo.Map{"error": err.Message})
}
