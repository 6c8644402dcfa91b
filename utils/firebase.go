// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	"timetable/config"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FirebaseClients bundles the clients opened from one service account.
type FirebaseClients struct {
	App       *firebase.App
	Firestore *firestore.Client
	Messaging *messaging.Client
	Storage   *storage.Client
	ProjectID string
}

// FirebaseInit validates the service account file and opens the Firebase app
// and its Firestore client. Messaging and Storage are opened lazily.
func FirebaseInit(ctx context.Context, serviceAccountPath string) (*FirebaseClients, error) {
	sa, err := config.LoadServiceAccount(serviceAccountPath)
	if err != nil {
		return nil, err
	}
	opt := option.WithCredentialsFile(serviceAccountPath)

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: sa.ProjectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Firestore client: %w", err)
	}

	return &FirebaseClients{App: app, Firestore: fs, ProjectID: sa.ProjectID}, nil
}

// MessagingClient returns the FCM client, creating it on first use.
func (f *FirebaseClients) MessagingClient(ctx context.Context) (*messaging.Client, error) {
	if f.Messaging != nil {
		return f.Messaging, nil
	}
	client, err := f.App.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}
	f.Messaging = client
	return client, nil
}

// NewStorageClient opens a Cloud Storage client with the given service account.
func NewStorageClient(ctx context.Context, serviceAccountPath string) (*storage.Client, error) {
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

// Close releases the clients that hold connections.
func (f *FirebaseClients) Close() error {
	var firstErr error
	if f.Firestore != nil {
		firstErr = f.Firestore.Close()
	}
	if f.Storage != nil {
		if err := f.Storage.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
