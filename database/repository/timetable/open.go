package timetableRepo

import (
	"context"
	"strings"

	"timetable/config"
	"timetable/database"
	"timetable/utils"

	"go.uber.org/zap"
)

// Connection is the explicit handle to the document store and the Google
// clients opened alongside it. Close it when the run ends.
type Connection struct {
	Store     DocumentStore
	StoreName string
	Firebase  *utils.FirebaseClients
}

// NeedsFirebase reports whether cfg requires the service account credential.
func NeedsFirebase(cfg config.Config) bool {
	return cfg.StoreBackend == config.BackendFirestore ||
		strings.HasPrefix(cfg.TimetablePath, "gs://") ||
		cfg.NotifyTopic != ""
}

// Open connects to the configured backend.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Connection, error) {
	conn := &Connection{}

	if NeedsFirebase(cfg) {
		fb, err := utils.FirebaseInit(ctx, cfg.ServiceAccountPath)
		if err != nil {
			return nil, err
		}
		conn.Firebase = fb
		logger.Info("Open: Firebase app initialized", zap.String("projectId", fb.ProjectID))
	}

	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, err := database.InitDB(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			conn.Close(ctx)
			return nil, err
		}
		conn.Store = NewMongoStore(client, cfg.DatabaseName)
		conn.StoreName = "MongoDB"
	default:
		conn.Store = NewFirestoreStore(conn.Firebase.Firestore)
		conn.StoreName = "Firestore"
	}
	return conn, nil
}

// Close releases the store and Firebase clients.
func (c *Connection) Close(ctx context.Context) error {
	var firstErr error
	if c.Store != nil {
		firstErr = c.Store.Close(ctx)
	}
	if c.Firebase != nil {
		// The Firestore client is owned by Store when it is the backend.
		if c.StoreName == "Firestore" {
			c.Firebase.Firestore = nil
		}
		if err := c.Firebase.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
