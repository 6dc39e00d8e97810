package handler

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"notes-service/internal/model"
	"notes-service/internal/store"
	"notes-service/pkg/jwtutil"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// AuthStore is the slice of the store the auth handler needs.
type AuthStore interface {
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindTenantBySlug(ctx context.Context, slug string) (*model.Tenant, error)
	CreateTenantWithAdmin(ctx context.Context, tenant *model.Tenant, admin *model.User) error
}

// AuthHandler serves registration and login.
type AuthHandler struct {
	store AuthStore
	codec *jwtutil.Codec
}

func NewAuthHandler(s AuthStore, codec *jwtutil.Codec) *AuthHandler {
	return &AuthHandler{store: s, codec: codec}
}

// Register creates a tenant on the free plan together with its first
// admin user.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		TenantName string `json:"tenant_name"`
		TenantSlug string `json:"tenant_slug"`
		Email      string `json:"email"`
		Password   string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	req.Email = normalizeEmail(req.Email)
	req.TenantSlug = strings.TrimSpace(req.TenantSlug)

	if req.TenantName == "" || req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant_name, email and password are required"})
	}
	if !slugPattern.MatchString(req.TenantSlug) {
		prometheus.RecordAuthError("invalid_slug")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant_slug must be lowercase and URL-safe"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	if _, err := h.store.FindTenantBySlug(c.Request().Context(), req.TenantSlug); err == nil {
		log.Warn("Tenant slug already taken", zap.String("slug", req.TenantSlug))
		prometheus.RecordAuthError("slug_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "tenant slug already registered"})
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("Tenant lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	if _, err := h.store.FindUserByEmail(c.Request().Context(), req.Email); err == nil {
		log.Warn("User already exists", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("User lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	tenant := model.Tenant{
		Slug:     req.TenantSlug,
		Name:     req.TenantName,
		Plan:     model.PlanFree,
		MaxNotes: 3,
	}
	admin := model.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		IsActive: true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.CreateTenantWithAdmin(c.Request().Context(), &tenant, &admin); err != nil {
		log.Error("Failed to create tenant", zap.Error(err))
		prometheus.RecordAuthError("tenant_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	log.Info("Tenant registered",
		zap.String("slug", tenant.Slug),
		zap.Uint("tenant_id", tenant.ID),
		zap.String("admin_email", admin.Email))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Tenant registered successfully",
		"tenant": map[string]interface{}{
			"id":   tenant.ID,
			"slug": tenant.Slug,
			"name": tenant.Name,
			"plan": tenant.Plan,
		},
		"user": map[string]interface{}{
			"id":    admin.ID,
			"email": admin.Email,
			"role":  admin.Role,
		},
	})
}

// Login exchanges email and password for a bearer token carrying the
// user's tenant claims.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	req.Email = normalizeEmail(req.Email)

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.store.FindUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		log.Warn("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// Deactivated accounts keep their record but cannot authenticate.
	if !user.IsActive {
		log.Warn("Deactivated user attempted login", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_deactivated")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := h.codec.Issue(user.ID, user.Email, user.Role, user.TenantID, user.Tenant.Slug)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("role", user.Role),
		zap.String("tenant_slug", user.Tenant.Slug))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
		"tenant": map[string]interface{}{
			"id":   user.TenantID,
			"slug": user.Tenant.Slug,
			"name": user.Tenant.Name,
			"plan": user.Tenant.Plan,
		},
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
