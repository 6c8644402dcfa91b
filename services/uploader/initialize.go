package uploader

import (
	"context"

	"timetable/config"
	timetableRepo "timetable/database/repository/timetable"
	"timetable/utils"

	"go.uber.org/zap"
)

// Initialize opens the store connection and, for gs:// sources, a Cloud
// Storage client. Every failure is a *ConfigError and nothing has been
// written yet.
func Initialize(ctx context.Context, cfg config.Config, logger *zap.Logger) (*timetableRepo.Connection, error) {
	conn, err := timetableRepo.Open(ctx, cfg, logger)
	if err != nil {
		return nil, NewConfigError("cannot open document store", err)
	}
	if isGCSPath(cfg.TimetablePath) {
		client, err := utils.NewStorageClient(ctx, cfg.ServiceAccountPath)
		if err != nil {
			conn.Close(ctx)
			return nil, NewConfigError("cannot open Cloud Storage", err)
		}
		conn.Firebase.Storage = client
	}
	return conn, nil
}
