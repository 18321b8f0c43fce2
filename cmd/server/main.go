package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/kidsshop-backend/config"
	"github.com/ikkim/kidsshop-backend/internal/app/controller"
	"github.com/ikkim/kidsshop-backend/internal/app/repository"
	"github.com/ikkim/kidsshop-backend/internal/app/service"
	"github.com/ikkim/kidsshop-backend/internal/db"
	"github.com/ikkim/kidsshop-backend/internal/middleware"
	"github.com/ikkim/kidsshop-backend/internal/router"
	"github.com/ikkim/kidsshop-backend/internal/scheduler"
	"github.com/ikkim/kidsshop-backend/internal/session"
	"github.com/ikkim/kidsshop-backend/pkg/logger"
	"github.com/ikkim/kidsshop-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting kids shop backend", map[string]interface{}{
		"environment":  cfg.Server.Environment,
		"port":         cfg.Server.Port,
		"log_level":    logLevel,
		"stock_policy": cfg.Cart.StockPolicy,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations; sizes and colors are seeded along the way
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Anonymous sessions live in Redis
	redisClient, err := redis.Init(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()
	sessionStore := session.NewRedisStore(redisClient, cfg.Session.TTL)

	// Initialize repositories
	database := db.GetDB()
	userRepo := repository.NewUserRepository(database)
	productRepo := repository.NewProductRepository(database)
	catalogRepo := repository.NewCatalogRepository(database)
	cartRepo := repository.NewCartRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	favoriteRepo := repository.NewFavoriteRepository(database)

	// Initialize services
	ledger := service.NewStockLedger(productRepo, service.StockPolicy(cfg.Cart.StockPolicy))
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	catalogService := service.NewCatalogService(productRepo, catalogRepo)
	cartService := service.NewCartService(database, cartRepo, ledger, sessionStore)
	orderService := service.NewOrderService(database, orderRepo, cartRepo, ledger)
	favoriteService := service.NewFavoriteService(favoriteRepo, catalogService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	sessionMiddleware := middleware.NewSessionMiddleware(cfg.Session)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cartService, sessionMiddleware)
	productController := controller.NewProductController(catalogService)
	cartController := controller.NewCartController(cartService, sessionMiddleware)
	orderController := controller.NewOrderController(orderService)
	favoriteController := controller.NewFavoriteController(favoriteService)

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		orderController,
		favoriteController,
		authMiddleware,
		sessionMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Abandoned guest carts are purged on a schedule
	cleanup := scheduler.NewCartCleanupScheduler(cartService, cfg.Cart.CleanupSchedule, cfg.Cart.AnonymousTTL)
	if err := cleanup.Start(); err != nil {
		logger.Fatal("Failed to start cart cleanup scheduler", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	cleanup.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
