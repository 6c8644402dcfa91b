package timetableRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore returns a DocumentStore backed by MongoDB. Documents are keyed
// by _id.
func NewMongoStore(client *mongo.Client, database string) DocumentStore {
	return &mongoStore{client: client, db: client.Database(database)}
}

func (s *mongoStore) Set(ctx context.Context, collection, key string, fields map[string]any) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	doc := bson.M{"_id": key}
	for k, v := range fields {
		doc[k] = v
	}
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *mongoStore) Get(ctx context.Context, collection, key string) (map[string]any, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": key}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	delete(raw, "_id")
	return plainMap(raw), nil
}

func (s *mongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func plainMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

// plainValue turns the driver's document and array types into the map and
// slice shapes the Firestore client returns.
func plainValue(v any) any {
	switch t := v.(type) {
	case primitive.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	case primitive.M:
		return plainMap(t)
	case map[string]any:
		return plainMap(t)
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case int32:
		return int64(t)
	}
	return v
}
