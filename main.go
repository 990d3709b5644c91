package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/judyrop/storefront/auth"
	"github.com/judyrop/storefront/config"
	"github.com/judyrop/storefront/database"
	"github.com/judyrop/storefront/handlers"
	"github.com/judyrop/storefront/logger"
	"github.com/judyrop/storefront/models"
	"github.com/judyrop/storefront/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	env := cfg.Environment()
	appLogger, err := logger.New(logger.Config{
		IsDevelopment:     env == config.Development,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer appLogger.Sync()

	if env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, appLogger); err != nil {
		appLogger.Fatal("Failed to migrate database", zap.Error(err))
	}
	appLogger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	opts := []auth.Option{auth.WithBcryptCost(cfg.Auth.BcryptCost)}
	if cfg.OIDC.Enabled() {
		verifier, err := auth.NewOIDCVerifier(context.Background(), cfg.OIDC.Issuer, cfg.OIDC.ClientID)
		if err != nil {
			appLogger.Fatal("Failed to initialise OIDC provider", zap.Error(err))
		}
		opts = append(opts, auth.WithExternalVerifier(verifier))
		appLogger.Info("OIDC bearer tokens accepted", zap.String("issuer", cfg.OIDC.Issuer))
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: SetupRouter(db, appLogger, opts...),
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	appLogger.Info("Server stopped")
}

func SetupRouter(db *gorm.DB, appLogger *zap.Logger, opts ...auth.Option) *gin.Engine {
	r := gin.New()
	r.Use(logger.GinMiddleware(appLogger))

	products := repository.NewProductRepository(db)
	authSvc := auth.NewService(
		repository.NewUserRepository(db),
		repository.NewTokenRepository(db),
		appLogger,
		opts...,
	)

	public := r.Group("")
	protected := r.Group("", auth.Middleware(authSvc))

	// Health check endpoint
	public.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			appLogger.Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.NewAuthHandler(authSvc, appLogger).Register(public, protected)
	handlers.NewCategoryHandler(repository.NewStore[models.Category](db), appLogger).Register(public, protected)
	handlers.NewProductHandler(products, appLogger).Register(protected)
	handlers.NewReviewHandler(repository.NewReviewRepository(db), appLogger).Register(protected)
	handlers.NewOrderHandler(repository.NewStore[models.Order](db), products, appLogger).Register(protected)
	handlers.NewCartHandler(repository.NewStore[models.CartItem](db), products, appLogger).Register(protected)

	return r
}
