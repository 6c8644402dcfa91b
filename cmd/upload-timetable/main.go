// Command upload-timetable writes every day of a timetable file as one
// document of the timetable collection.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"timetable/config"
	"timetable/cron"
	timetableRepo "timetable/database/repository/timetable"
	"timetable/services/assistant"
	"timetable/services/notification"
	"timetable/services/tasks"
	"timetable/services/uploader"
	"timetable/utils"

	"cloud.google.com/go/storage"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()

	if err := utils.InitSentry(cfg.SentryDSN, cfg.Env); err != nil {
		logger.Sugar().Warnf("main: sentry disabled: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	report, err := run(ctx, cfg, logger, uploader.Initialize)
	stop()

	code := 0
	if err != nil {
		logFatal(logger, err)
		utils.ReportError(err, map[string]string{"stage": "setup"})
		code = 1
	} else if !report.OK() {
		code = 1
	}
	utils.FlushSentry()
	_ = logger.Sync()
	os.Exit(code)
}

// openFunc opens the store connection for a run.
type openFunc func(ctx context.Context, cfg config.Config, logger *zap.Logger) (*timetableRepo.Connection, error)

// run is initialize → load → upload. An error means nothing was written.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger, open openFunc) (*uploader.Report, error) {
	conn, err := open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer conn.Close(context.Background())
	utils.AddBreadcrumb("upload", "connected to "+conn.StoreName)

	var gcs *storage.Client
	if conn.Firebase != nil {
		gcs = conn.Firebase.Storage
	}
	rec, err := uploader.NewLoader(gcs).Load(ctx, cfg.TimetablePath)
	if err != nil {
		return nil, err
	}
	logger.Info("run: timetable loaded", zap.String("path", cfg.TimetablePath), zap.Int("days", rec.Len()))

	if cfg.UploadMode == config.ModeQueue {
		client := asynq.NewClient(cron.QueueRedisOpt(cfg))
		defer client.Close()
		return tasks.EnqueueRecord(ctx, client, cfg.TimetableCollection, rec, logger), nil
	}

	opts := uploader.Options{
		Collection:   cfg.TimetableCollection,
		StoreName:    conn.StoreName,
		Concurrency:  cfg.UploadConcurrency,
		WritesPerSec: cfg.UploadWritesPerSecond,
		WriteTimeout: cfg.UploadWriteTimeout,
	}
	if cfg.CacheEnabled {
		client, err := utils.InitCache(cfg)
		if err != nil {
			logger.Warn("run: cache invalidation disabled", zap.Error(err))
		} else {
			defer client.Close()
			opts.Cache = assistant.NewRedisDayCache(client, cfg.CacheTTL)
		}
	}

	report := uploader.NewUploader(conn.Store, logger, opts).UploadAll(ctx, rec)

	if cfg.NotifyTopic != "" && len(report.Succeeded) > 0 {
		notifyUpdated(ctx, cfg, conn.Firebase, report, logger)
	}
	return report, nil
}

func notifyUpdated(ctx context.Context, cfg config.Config, fb *utils.FirebaseClients, report *uploader.Report, logger *zap.Logger) {
	client, err := fb.MessagingClient(ctx)
	if err != nil {
		logger.Warn("run: notification skipped", zap.Error(err))
		return
	}
	svc, err := notification.NewDefaultNotificationService(client, cfg.NotifyTopic, logger)
	if err != nil {
		logger.Warn("run: notification skipped", zap.Error(err))
		return
	}
	if err := svc.NotifyTimetableUpdated(ctx, report.Collection, report.Succeeded); err != nil {
		logger.Warn("run: notification failed", zap.Error(err))
	}
}

func logFatal(logger *zap.Logger, err error) {
	var cfgErr *uploader.ConfigError
	var inErr *uploader.InputError
	switch {
	case errors.As(err, &cfgErr):
		logger.Error("Configuration error, nothing was uploaded", zap.Error(err))
	case errors.As(err, &inErr):
		logger.Error("Input error, nothing was uploaded", zap.String("path", inErr.Path), zap.Error(err))
	default:
		logger.Error("Upload aborted", zap.Error(err))
	}
}
