package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/prizehub/competitions-api/api/swagger"
	"github.com/prizehub/competitions-api/internal/handler"
	"github.com/prizehub/competitions-api/internal/middleware"
	"github.com/prizehub/competitions-api/internal/repository"
	"github.com/prizehub/competitions-api/internal/service"
	"github.com/prizehub/competitions-api/pkg/cache"
	"github.com/prizehub/competitions-api/pkg/config"
	"github.com/prizehub/competitions-api/pkg/database"
	"github.com/prizehub/competitions-api/pkg/logger"
	corsmiddleware "github.com/prizehub/competitions-api/pkg/middleware/cors"
	reqidmiddleware "github.com/prizehub/competitions-api/pkg/middleware/requestid"
)

// @title PrizeHub Competitions API
// @version 1.0.0
// @description Competition and sweepstakes portal backend
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var cacheRepo *repository.CacheRepository
	if cfg.Listing.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, listing cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Listing.CacheTTL, logr, cfg.Listing.CacheEnabled && cacheRepo != nil)

	competitionRepo := repository.NewCompetitionRepository(db)
	projectionRepo := repository.NewProjectionRepository(db)
	savedRepo := repository.NewSavedRepository(db)
	userRepo := repository.NewUserRepository(db)

	competitionSvc := service.NewCompetitionService(competitionRepo, projectionRepo, savedRepo, cacheSvc, metricsSvc, nil, logr, cfg.Listing.CacheTTL)
	authSvc := service.NewAuthService(userRepo, service.AuthConfig{
		JWTSecret:         cfg.JWT.Secret,
		TokenExpiration:   cfg.JWT.Expiration,
		RefreshExpiration: cfg.JWT.RefreshExpiration,
		Issuer:            cfg.JWT.Issuer,
	}, nil, logr)
	exportSvc := service.NewExportService(competitionSvc, cfg.Exports.Enabled)
	portalSvc := service.NewPortalService(competitionSvc, cfg.Listing.RefreshDebounce, logr)
	if err := portalSvc.Load(context.Background()); err != nil {
		logr.Sugar().Warnw("initial portal load failed", "error", err)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	publicHandler := handler.NewPublicHandler(competitionSvc)
	competitionHandler := handler.NewCompetitionHandler(competitionSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	portalHandler := handler.NewPortalHandler(portalSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := r.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/signup", authHandler.SignUp)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	}

	public := r.Group("/competitions")
	{
		public.GET("", publicHandler.List)
		public.GET("/:id", publicHandler.Get)
		public.POST("/:id/save", middleware.JWT(authSvc), publicHandler.ToggleSaved)
	}
	r.GET("/me/saved", middleware.JWT(authSvc), publicHandler.ListSaved)

	admin := r.Group("/admin", middleware.JWT(authSvc), middleware.AdminOnly())
	{
		admin.GET("/competitions", competitionHandler.List)
		admin.POST("/competitions", competitionHandler.Create)
		admin.GET("/competitions/export", exportHandler.Export)
		admin.GET("/competitions/:id", competitionHandler.Get)
		admin.PUT("/competitions/:id", competitionHandler.Update)

		portal := admin.Group("/portal")
		portal.GET("", portalHandler.State)
		portal.POST("/load", portalHandler.Load)
		portal.PUT("/filter", portalHandler.SetFilter)
		portal.POST("/select/:id", portalHandler.Select)
		portal.POST("/new", portalHandler.StartCreate)
		portal.POST("/save", portalHandler.Save)
		portal.POST("/cancel", portalHandler.Cancel)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
