package timetableRepo

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore returns a DocumentStore backed by Cloud Firestore.
func NewFirestoreStore(client *firestore.Client) DocumentStore {
	return &firestoreStore{client: client}
}

func (s *firestoreStore) doc(collection, key string) (*firestore.DocumentRef, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	ref := s.client.Collection(collection).Doc(key)
	if ref == nil {
		return nil, ErrInvalidKey
	}
	return ref, nil
}

// Set overwrites the whole document; fields absent from the map are removed.
func (s *firestoreStore) Set(ctx context.Context, collection, key string, fields map[string]any) error {
	ref, err := s.doc(collection, key)
	if err != nil {
		return err
	}
	_, err = ref.Set(ctx, fields)
	return err
}

func (s *firestoreStore) Get(ctx context.Context, collection, key string) (map[string]any, error) {
	ref, err := s.doc(collection, key)
	if err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return snap.Data(), nil
}

func (s *firestoreStore) Ping(ctx context.Context) error {
	_, err := s.client.Collections(ctx).Next()
	if err == iterator.Done {
		return nil
	}
	return err
}

func (s *firestoreStore) Close(context.Context) error {
	return s.client.Close()
}
