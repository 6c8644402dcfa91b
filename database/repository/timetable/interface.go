package timetableRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Get when the document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidKey is returned when a key cannot be used as a document id.
	ErrInvalidKey = errors.New("invalid document key")
)

// DocumentStore is the capability set the uploader and webhook need from a
// document database.
type DocumentStore interface {
	// Set creates or fully replaces the document key in collection.
	Set(ctx context.Context, collection, key string, fields map[string]any) error
	// Get returns the fields of the document key in collection, or ErrNotFound.
	Get(ctx context.Context, collection, key string) (map[string]any, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

const maxKeyBytes = 1500

// ValidateKey rejects ids that Firestore refuses. Both backends apply it so a
// source file behaves the same way whichever store receives it.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	case len(key) > maxKeyBytes:
		return fmt.Errorf("%w: key longer than %d bytes", ErrInvalidKey, maxKeyBytes)
	case strings.Contains(key, "/"):
		return fmt.Errorf("%w: %q contains '/'", ErrInvalidKey, key)
	case key == "." || key == "..":
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	case len(key) >= 4 && strings.HasPrefix(key, "__") && strings.HasSuffix(key, "__"):
		return fmt.Errorf("%w: %q is reserved", ErrInvalidKey, key)
	}
	return nil
}
