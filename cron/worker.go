package cron

import (
	"context"
	"time"

	"timetable/config"
	"timetable/services/tasks"
	"timetable/services/uploader"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt returns the asynq connection settings for cfg.
func QueueRedisOpt(cfg config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
}

// NewUploadWorker builds the asynq server and mux that process upload tasks.
func NewUploadWorker(cfg config.Config, u *uploader.Uploader, logger *zap.Logger) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		QueueRedisOpt(cfg),
		asynq.Config{
			Concurrency: cfg.UploadConcurrency,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeUploadDay, tasks.HandleUploadDay(u, logger))
	return srv, mux
}

// MonitorRedisConnection pings the queue database periodically until ctx is
// cancelled.
func MonitorRedisConnection(ctx context.Context, cfg config.Config, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("[UploadWorker] Redis connection lost", zap.Error(err))
			}
		}
	}
}
