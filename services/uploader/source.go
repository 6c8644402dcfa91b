package uploader

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
)

const gcsScheme = "gs://"

// SourceReader fetches the raw bytes of a source file.
type SourceReader interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

type localReader struct{}

func (localReader) Read(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

type gcsReader struct {
	client *storage.Client
}

func (r gcsReader) Read(ctx context.Context, path string) ([]byte, error) {
	bucket, object, err := splitGCSPath(path)
	if err != nil {
		return nil, err
	}
	rc, err := r.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func splitGCSPath(path string) (bucket, object string, err error) {
	rest := strings.TrimPrefix(path, gcsScheme)
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("malformed Cloud Storage path %q, want gs://bucket/object", path)
	}
	return bucket, object, nil
}

func isGCSPath(path string) bool {
	return strings.HasPrefix(path, gcsScheme)
}
