// File: timetable/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timetable/config"
	timetableRepo "timetable/database/repository/timetable"
	"timetable/handlers"
	"timetable/middleware"
	"timetable/routes"
	"timetable/services/assistant"
	"timetable/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if err := utils.InitSentry(cfg.SentryDSN, cfg.Env); err != nil {
		logger.Sugar().Warnf("main: sentry disabled: %v", err)
	}
	defer utils.FlushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := timetableRepo.Open(ctx, cfg, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to open document store: %v", err)
	}
	defer conn.Close(context.Background())

	var cache assistant.DayCache
	var cachePinger utils.Pinger
	if cfg.CacheEnabled {
		client, err := utils.InitCache(cfg)
		if err != nil {
			logger.Warn("main: day cache disabled", zap.Error(err))
		} else {
			dayCache := assistant.NewRedisDayCache(client, cfg.CacheTTL)
			cache, cachePinger = dayCache, dayCache
			defer client.Close()
		}
	}
	utils.StartHealthMonitor(ctx, 60*time.Second, conn.Store, cachePinger)

	// services.
	days := assistant.NewDayReader(conn.Store, cache, cfg.TimetableCollection, logger)
	assistantService := assistant.NewDefaultAssistantService(days, cfg.Location(), nil, logger)
	webhookHandler := handlers.NewWebhookHandler(assistantService)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestLogger(logger))

	handlerBundle := &handlers.HandlerBundle{
		FulfillmentHandler: webhookHandler.FulfillmentHandler,
		LiveHandler:        webhookHandler.LiveHandler,
		HealthHandler:      handlers.HealthHandler,
		MaxRequestsPerMin:  cfg.MaxRequestsPerMin,
	}
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("✅ Webhook is running on %s", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
