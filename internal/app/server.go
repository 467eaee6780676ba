// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/HeltonFraga01/cortexx-sub008/internal/config"
	"github.com/HeltonFraga01/cortexx-sub008/internal/db"
	authHandler "github.com/HeltonFraga01/cortexx-sub008/internal/handlers/auth"
	campaignHandler "github.com/HeltonFraga01/cortexx-sub008/internal/handlers/campaign"
	"github.com/HeltonFraga01/cortexx-sub008/internal/middleware"
	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/jwt"
	"github.com/HeltonFraga01/cortexx-sub008/internal/pkg/session"
	"github.com/HeltonFraga01/cortexx-sub008/internal/repository/postgres"
	"github.com/HeltonFraga01/cortexx-sub008/internal/rls"
	"github.com/HeltonFraga01/cortexx-sub008/internal/service/admission"
	authUsecase "github.com/HeltonFraga01/cortexx-sub008/internal/service/auth"
	campaignUsecase "github.com/HeltonFraga01/cortexx-sub008/internal/service/campaign"
	"github.com/HeltonFraga01/cortexx-sub008/internal/service/identity"
	"github.com/HeltonFraga01/cortexx-sub008/internal/service/isolation"
	"github.com/HeltonFraga01/cortexx-sub008/internal/service/ownership"
	"github.com/HeltonFraga01/cortexx-sub008/internal/service/tenantctx"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	pool        *pgxpool.Pool
	redisClient *redis.Client
	httpServer  *http.Server
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{
		cfg:    cfg,
		engine: gin.New(),
		logger: logger,
	}
}

// Start wires the full admission chain and serves until Shutdown.
func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Stores -----
	pool, err := db.NewPostgresPool(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool

	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	s.redisClient = redisClient

	// ----- JWT -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Sessions -----
	sessionStore := session.NewRedisStore(redisClient)
	sessionValidator := session.NewValidator(sessionStore, s.cfg.SessionTTL, s.logger)
	sessionManager := session.NewManager(sessionStore, s.cfg.SessionTTL, s.logger)

	// ----- Repositories -----
	dbWrapper := postgres.NewDBFromPool(pool)
	authRepo := postgres.NewAuthRepository(pool)
	tenantRepo := postgres.NewTenantRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	usageRepo := postgres.NewUsageRepository(pool)
	resourceRepo := postgres.NewResourceRepository(pool)
	campaignRepo := postgres.NewCampaignRepository(pool)

	// ----- Admission services -----
	identityResolver := identity.NewResolver(identity.NewJWTClient(jwtManager.Verifier), sessionValidator, s.logger)
	tenantResolver := tenantctx.NewResolver(tenantRepo, s.cfg.Tenant, s.cfg.IsProduction(), s.logger)
	propagator := rls.NewPropagator(dbWrapper, authRepo, s.logger)
	quota := admission.NewQuota(usageRepo, s.cfg.QuotaDefaults, s.logger)
	windowStore := admission.NewRedisWindowStore(redisClient)
	rateLimiter := admission.NewRateLimiter(
		windowStore,
		planRepo,
		s.cfg.PlanCacheTTL,
		s.cfg.PlanRateLimits,
		s.cfg.DefaultPlan,
		s.cfg.RateWindow,
		s.logger,
	)
	providerAdmin := ownership.NewHTTPAdminClient(s.cfg.ProviderAdminURL, s.cfg.ProviderAdminKey, s.cfg.ProviderAdminTimeout)
	ownershipValidator := ownership.NewValidator(providerAdmin, s.cfg.OwnershipCacheTTL, s.logger)
	isolationValidator := isolation.NewValidator(resourceRepo, s.logger)

	// ----- Business services -----
	authService := authUsecase.NewService(authRepo, jwtManager, sessionManager, s.logger)
	campaignService := campaignUsecase.NewService(campaignRepo, propagator, s.logger)

	// ----- Middlewares -----
	authMW := middleware.NewAuthMiddleware(identityResolver, s.cfg.SessionCookieName, s.logger)
	tenantMW := middleware.NewTenantMiddleware(tenantResolver, s.logger)
	rlsMW := middleware.NewRLSMiddleware(propagator, s.logger)
	quotaMW := middleware.NewQuotaMiddleware(quota, admission.FailOpen, s.logger)
	rateMW := middleware.NewRateLimitMiddleware(rateLimiter, admission.FailOpen, s.logger)
	ownershipMW := middleware.NewOwnershipMiddleware(ownershipValidator, s.logger)
	isolationMW := middleware.NewIsolationMiddleware(isolationValidator, s.logger)

	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(),
	)

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:         authHandler.NewAuthHandler(authService, s.cfg.SessionCookieName, s.logger),
		CampaignHandler:     campaignHandler.NewCampaignHandler(campaignService, quotaMW, s.logger),
		AuthMiddleware:      authMW,
		TenantMiddleware:    tenantMW,
		RLSMiddleware:       rlsMW,
		QuotaMiddleware:     quotaMW,
		RateLimitMiddleware: rateMW,
		OwnershipMiddleware: ownershipMW,
		IsolationMiddleware: isolationMW,
		Health:              s.health(windowStore),
	}
	SetupRouter(s.engine, handlers)

	s.httpServer = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	s.logger.Info("server listening",
		zap.String("addr", s.cfg.HTTPAddr),
		zap.String("env", s.cfg.Env),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and releases the store connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var firstErr error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return firstErr
}

// health reports readiness of both stores. Degraded stores still answer
// 200 with per-store status so operators see which side is down.
func (s *Server) health(window *admission.RedisWindowStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok", "postgres": "ok", "redis": "ok"}
		if err := s.pool.Ping(ctx); err != nil {
			status["status"] = "degraded"
			status["postgres"] = err.Error()
		}
		if err := window.HealthCheck(ctx); err != nil {
			status["status"] = "degraded"
			status["redis"] = err.Error()
		}
		c.JSON(http.StatusOK, status)
	}
}
