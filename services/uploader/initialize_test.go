package uploader

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"timetable/config"

	"go.uber.org/zap"
)

func firestoreConfig(serviceAccount string) config.Config {
	return config.Config{
		StoreBackend:        config.BackendFirestore,
		ServiceAccountPath:  serviceAccount,
		TimetablePath:       "timetable.json",
		TimetableCollection: "timetable",
	}
}

func Test_Initialize_CredentialErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "Missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "serviceAccount.json") },
		},
		{
			name: "Not JSON",
			path: func(t *testing.T) string { return writeFile(t, "serviceAccount.json", "not json") },
		},
		{
			name: "Wrong type",
			path: func(t *testing.T) string {
				return writeFile(t, "serviceAccount.json", `{"type": "authorized_user", "project_id": "p"}`)
			},
		},
		{
			name: "Missing private key",
			path: func(t *testing.T) string {
				return writeFile(t, "serviceAccount.json", `{"type": "service_account", "project_id": "p", "client_email": "a@p"}`)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Initialize(context.Background(), firestoreConfig(tt.path(t)), zap.NewNop())
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("err = %v, want *ConfigError", err)
			}
			if conn != nil {
				t.Errorf("a connection was returned alongside a configuration error")
			}
		})
	}
}
