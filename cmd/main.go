package main

import (
	"notes-service/internal/handler"
	"notes-service/internal/middleware"
	"notes-service/internal/policy"
	"notes-service/internal/store"
	"notes-service/pkg/config"
	"notes-service/pkg/database"
	"notes-service/pkg/jwtutil"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting notes service...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Build the store and the decision components. The token codec and
	// the subscription gate get their configuration here, once; nothing
	// below reads the environment.
	st := store.New(db)
	codec := jwtutil.NewCodec(&cfg.JWT)
	gate := policy.NewSubscriptionGate(st, cfg.Quota.FreeNoteLimit)

	authHandler := handler.NewAuthHandler(st, codec)
	noteHandler := handler.NewNoteHandler(st, gate)
	userHandler := handler.NewUserHandler(st)
	tenantHandler := handler.NewTenantHandler(st)

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Public tenant info - the slug is resolved by lookup since there
	// is no authenticated user to bind to.
	public := e.Group("/tenants/:slug")
	public.Use(middleware.ValidateTenant(st))
	public.GET("", tenantHandler.PublicInfo)

	// API routes - all require authentication. The check order on
	// every group below is declared here: Authenticate, then
	// ValidateTenant, then the role requirement.
	api := e.Group("/api")
	api.Use(middleware.Authenticate(codec, st))

	api.GET("/me", handler.Profile)

	// Notes - tenant-scoped, member or higher
	notes := api.Group("/tenants/:slug/notes",
		middleware.ValidateTenant(st),
		middleware.RequireMember)
	notes.POST("", noteHandler.Create)
	notes.GET("", noteHandler.List)
	notes.GET("/:id", noteHandler.Get)
	notes.PUT("/:id", noteHandler.Update)
	notes.DELETE("/:id", noteHandler.Delete)

	// Tenant administration - tenant-scoped, admin only
	admin := api.Group("/tenants/:slug",
		middleware.ValidateTenant(st),
		middleware.RequireAdmin)
	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Invite)
	admin.PATCH("/users/:id/role", userHandler.ChangeRole)
	admin.POST("/users/:id/deactivate", userHandler.Deactivate)
	admin.POST("/users/:id/reactivate", userHandler.Reactivate)
	admin.POST("/upgrade", tenantHandler.Upgrade)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
