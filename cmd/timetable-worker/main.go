// Command timetable-worker processes day upload tasks queued by
// upload-timetable in queue mode.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"timetable/config"
	"timetable/cron"
	"timetable/services/assistant"
	"timetable/services/uploader"
	"timetable/utils"

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

	conn, err := uploader.Initialize(ctx, cfg, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	defer conn.Close(context.Background())

	opts := uploader.Options{
		Collection:   cfg.TimetableCollection,
		StoreName:    conn.StoreName,
		WritesPerSec: cfg.UploadWritesPerSecond,
		WriteTimeout: cfg.UploadWriteTimeout,
	}
	if cfg.CacheEnabled {
		client, err := utils.InitCache(cfg)
		if err != nil {
			logger.Warn("main: cache invalidation disabled", zap.Error(err))
		} else {
			defer client.Close()
			opts.Cache = assistant.NewRedisDayCache(client, cfg.CacheTTL)
		}
	}
	u := uploader.NewUploader(conn.Store, logger, opts)

	go cron.MonitorRedisConnection(ctx, cfg, logger)

	srv, mux := cron.NewUploadWorker(cfg, u, logger)
	logger.Info("[UploadWorker] 🚀 Starting async worker...")
	// Run blocks until SIGINT or SIGTERM.
	if err := srv.Run(mux); err != nil {
		logger.Sugar().Fatalf("[UploadWorker] failed to run: %v", err)
	}
}
