package middleware

import (
	"notes-service/internal/apperr"
	"notes-service/internal/model"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
)

// RequireAdmin passes only the admin role. It must run after
// Authenticate; a missing user means the chain was miswired and the
// request is rejected as unauthenticated rather than let through.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return requireRole(next, model.RoleAdmin)
}

// RequireMember passes member or higher, which is every known role.
func RequireMember(next echo.HandlerFunc) echo.HandlerFunc {
	return requireRole(next, model.RoleMember)
}

func requireRole(next echo.HandlerFunc, minimum string) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := UserFromContext(c)
		if !ok {
			prometheus.RecordAuthError("no_user_in_context")
			return reject(c, apperr.Unauthenticated("authentication required"))
		}
		if minimum == model.RoleAdmin && !user.IsAdmin() {
			prometheus.RecordAuthError("insufficient_role")
			return reject(c, apperr.Forbidden("admin role required"))
		}
		return next(c)
	}
}
