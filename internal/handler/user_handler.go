package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"notes-service/internal/apperr"
	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/internal/policy"
	"notes-service/internal/store"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the store the user-administration handler
// needs.
type UserStore interface {
	ListUsersByTenant(ctx context.Context, tenantID uint) ([]model.User, error)
	FindUserInTenant(ctx context.Context, tenantID, id uint) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, user *model.User) error
}

// UserHandler serves tenant user administration. All routes are
// admin-only and tenant-scoped.
type UserHandler struct {
	store UserStore
}

func NewUserHandler(s UserStore) *UserHandler {
	return &UserHandler{store: s}
}

// List returns every user of the tenant, deactivated ones included.
func (h *UserHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("list_users")

	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httpError(c, apperr.Unauthenticated("authentication required"))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	users, err := h.store.ListUsersByTenant(c.Request().Context(), tenant.ID)
	if err != nil {
		log.Error("Failed to list users", zap.Error(err))
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// Invite creates a user inside the admin's tenant.
func (h *UserHandler) Invite(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("invite")

	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httpError(c, apperr.Unauthenticated("authentication required"))
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse invite request", zap.Error(err))
		return httpError(c, apperr.InvalidRequest("invalid request"))
	}

	req.Email = normalizeEmail(req.Email)
	if req.Role == "" {
		req.Role = model.RoleMember
	}

	if req.Email == "" || req.Password == "" {
		return httpError(c, apperr.InvalidRequest("email and password are required"))
	}
	if !model.ValidRole(req.Role) {
		return httpError(c, apperr.InvalidRequest("unknown role"))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	if _, err := h.store.FindUserByEmail(c.Request().Context(), req.Email); err == nil {
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("User lookup failed", zap.Error(err))
		return httpError(c, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return httpError(c, err)
	}

	user := model.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     req.Role,
		TenantID: tenant.ID,
		IsActive: true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.CreateUser(c.Request().Context(), &user); err != nil {
		log.Error("Failed to create user", zap.Error(err))
		return httpError(c, err)
	}

	log.Info("User invited",
		zap.String("email", user.Email),
		zap.String("role", user.Role),
		zap.String("tenant_slug", tenant.Slug))

	return c.JSON(http.StatusCreated, user)
}

// ChangeRole updates a user's role within the tenant. An admin cannot
// demote themselves.
func (h *UserHandler) ChangeRole(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("role_change")

	actor, ok := middleware.UserFromContext(c)
	if !ok {
		return httpError(c, apperr.Unauthenticated("authentication required"))
	}
	tenant, _ := middleware.TenantFromContext(c)

	target, err := h.fetchUser(c, tenant.ID)
	if err != nil {
		return httpError(c, err)
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse role change request", zap.Error(err))
		return httpError(c, apperr.InvalidRequest("invalid request"))
	}

	if err := policy.CheckRoleChange(actor, target, req.Role); err != nil {
		log.Warn("Role change rejected",
			zap.Uint("actor_id", actor.ID),
			zap.Uint("target_id", target.ID),
			zap.String("role", req.Role))
		prometheus.RecordAuthError("self_demotion")
		return httpError(c, err)
	}

	target.Role = req.Role

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.store.UpdateUser(c.Request().Context(), target); err != nil {
		log.Error("Failed to update user role", zap.Error(err))
		return httpError(c, err)
	}

	log.Info("User role changed",
		zap.Uint("target_id", target.ID),
		zap.String("role", target.Role))

	return c.JSON(http.StatusOK, target)
}

// Deactivate soft-deletes a user: the record stays but authentication
// is refused. An admin cannot deactivate their own account.
func (h *UserHandler) Deactivate(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("deactivate")

	actor, ok := middleware.UserFromContext(c)
	if !ok {
		return httpError(c, apperr.Unauthenticated("authentication required"))
	}
	tenant, _ := middleware.TenantFromContext(c)

	target, err := h.fetchUser(c, tenant.ID)
	if err != nil {
		return httpError(c, err)
	}

	if err := policy.CheckDeactivation(actor, target); err != nil {
		log.Warn("Self-deactivation rejected", zap.Uint("actor_id", actor.ID))
		prometheus.RecordAuthError("self_deactivation")
		return httpError(c, err)
	}

	target.IsActive = false

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.store.UpdateUser(c.Request().Context(), target); err != nil {
		log.Error("Failed to deactivate user", zap.Error(err))
		return httpError(c, err)
	}

	log.Info("User deactivated", zap.Uint("target_id", target.ID))
	return c.JSON(http.StatusOK, target)
}

// Reactivate reverses a deactivation.
func (h *UserHandler) Reactivate(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("reactivate")

	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httpError(c, apperr.Unauthenticated("authentication required"))
	}

	target, err := h.fetchUser(c, tenant.ID)
	if err != nil {
		return httpError(c, err)
	}

	target.IsActive = true

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.store.UpdateUser(c.Request().Context(), target); err != nil {
		log.Error("Failed to reactivate user", zap.Error(err))
		return httpError(c, err)
	}

	log.Info("User reactivated", zap.Uint("target_id", target.ID))
	return c.JSON(http.StatusOK, target)
}

func (h *UserHandler) fetchUser(c echo.Context, tenantID uint) (*model.User, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, apperr.InvalidRequest("invalid user id")
	}

	user, err := h.store.FindUserInTenant(c.Request().Context(), tenantID, uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("user lookup", err)
	}
	return user, nil
}
