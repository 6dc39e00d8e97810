package handler

import (
	"context"
	"net/http"
	"time"

	"notes-service/internal/apperr"
	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TenantStore is the slice of the store the tenant handler needs.
type TenantStore interface {
	UpdateTenant(ctx context.Context, tenant *model.Tenant) error
}

// TenantHandler serves tenant info and plan administration.
type TenantHandler struct {
	store TenantStore
}

func NewTenantHandler(s TenantStore) *TenantHandler {
	return &TenantHandler{store: s}
}

// PublicInfo returns the tenant resolved from the path slug. This is
// the one route where the path slug is trusted: there is no
// authenticated user to bind to.
func (h *TenantHandler) PublicInfo(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httpError(c, apperr.NotFound("tenant not found"))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"slug": tenant.Slug,
		"name": tenant.Name,
		"plan": tenant.Plan,
	})
}

// Upgrade moves a tenant from the free plan to pro. The transition is
// one-directional; once pro, the note quota is unbounded and never
// re-checked.
func (h *TenantHandler) Upgrade(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("upgrade")

	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httpError(c, apperr.Unauthenticated("authentication required"))
	}

	if tenant.IsPro() {
		return httpError(c, apperr.InvalidRequest("tenant is already on the pro plan"))
	}

	now := time.Now()
	tenant.Plan = model.PlanPro
	tenant.MaxNotes = model.UnlimitedNotes
	tenant.UpgradedAt = &now

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.store.UpdateTenant(c.Request().Context(), tenant); err != nil {
		log.Error("Failed to upgrade tenant", zap.Error(err))
		return httpError(c, err)
	}

	log.Info("Tenant upgraded to pro", zap.String("slug", tenant.Slug))
	return c.JSON(http.StatusOK, tenant)
}

// Profile returns the authenticated principal together with its
// tenant.
func Profile(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return httpError(c, apperr.Unauthenticated("authentication required"))
	}
	return c.JSON(http.StatusOK, user)
}
