// File: deskhive/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deskhive/config"
	"deskhive/cron"
	"deskhive/database"
	bookingRepoPkg "deskhive/database/repository/booking"
	lockRepoPkg "deskhive/database/repository/lock"
	resourceRepoPkg "deskhive/database/repository/resource"
	"deskhive/handlers"
	"deskhive/middleware"
	"deskhive/routes"
	"deskhive/services/booking"
	"deskhive/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	db := database.DB()
	resourceRepo := resourceRepoPkg.NewMongoResourceRepo(db)
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo(db)
	if err := resourceRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure resource indexes: %v", err)
	}
	if err := bookingRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}

	locker := lockRepoPkg.NewRedisResourceLocker(
		utils.GetLockClient(),
		time.Duration(config.AppConfig.LockTTLSeconds)*time.Second,
		time.Duration(config.AppConfig.LockWaitMillis)*time.Millisecond,
	)

	// services.
	bookingService := &booking.DefaultBookingService{
		ResourceRepo:   resourceRepo,
		Repo:           bookingRepo,
		Locks:          locker,
		MaxOccurrences: config.AppConfig.MaxOccurrences,
		CancelCutoff:   time.Duration(config.AppConfig.CancelCutoffMins) * time.Minute,
	}
	if config.AppConfig.CompletionEnabled {
		bookingService.Completion = cron.NewCompletionScheduler()
		cron.InitCompletionWorker(bookingService)
	}

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	resourceHandler := handlers.NewResourceHandler(resourceRepo, logger)

	routes.RegisterRoutes(router, bookingHandler, resourceHandler)

	utils.StartHealthMonitor([]*redis.Client{utils.GetLockClient()}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
