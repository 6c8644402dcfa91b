package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"timetable/models"

	"cloud.google.com/go/storage"
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// Loader reads a source file into a SourceRecord.
type Loader struct {
	local SourceReader
	gcs   SourceReader
}

// NewLoader returns a Loader for local files. When client is non-nil gs://
// paths are read from Cloud Storage too.
func NewLoader(client *storage.Client) *Loader {
	l := &Loader{local: localReader{}}
	if client != nil {
		l.gcs = gcsReader{client: client}
	}
	return l
}

// Load reads and parses path. Any failure is an *InputError.
func (l *Loader) Load(ctx context.Context, path string) (*models.SourceRecord, error) {
	reader := l.local
	if isGCSPath(path) {
		if l.gcs == nil {
			return nil, newInputError(path, "Cloud Storage source requires a service account", nil)
		}
		reader = l.gcs
	}

	data, err := reader.Read(ctx, path)
	if err != nil {
		return nil, newInputError(path, "read failed", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, newInputError(path, "file is empty", nil)
	}
	if !utf8.Valid(data) {
		return nil, newInputError(path, "file is not valid UTF-8", nil)
	}

	var rec *models.SourceRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		rec, err = parseYAML(data)
	default:
		rec, err = parseJSON(data)
	}
	if err != nil {
		return nil, newInputError(path, "malformed timetable", err)
	}
	return rec, nil
}

func parseJSON(data []byte) (*models.SourceRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("top level must be an object of day to classes")
	}

	rec := models.NewSourceRecord()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		day, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("day %q: %w", day, err)
		}
		rec.Put(day, normalize(v))
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level object")
	}
	return rec, nil
}

func parseYAML(data []byte) (*models.SourceRecord, error) {
	if err := checkYAMLDayKeys(data); err != nil {
		return nil, err
	}
	var v any
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}
	doc, ok := v.(yaml.MapSlice)
	if !ok {
		return nil, errors.New("top level must be a mapping of day to classes")
	}
	rec := models.NewSourceRecord()
	for _, item := range doc {
		day, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("day key %v is not a string", item.Key)
		}
		rec.Put(day, normalize(item.Value))
	}
	return rec, nil
}

// checkYAMLDayKeys rejects top-level keys that are not written as strings.
// The decoder stringifies scalar keys, so 1, true and null must be caught on
// the syntax tree.
func checkYAMLDayKeys(data []byte) error {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return err
	}
	if len(file.Docs) == 0 {
		return nil
	}
	var pairs []*ast.MappingValueNode
	switch body := file.Docs[0].Body.(type) {
	case *ast.MappingNode:
		pairs = body.Values
	case *ast.MappingValueNode:
		pairs = []*ast.MappingValueNode{body}
	}
	for _, pair := range pairs {
		if _, ok := any(pair.Key).(*ast.StringNode); !ok {
			return fmt.Errorf("day key %s is not a string", strings.TrimSpace(pair.Key.String()))
		}
	}
	return nil
}

// normalize converts decoded values into the shapes document stores accept:
// integral numbers become int64, other numbers float64, mappings
// map[string]any and sequences []any.
func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case int:
		return int64(t)
	case uint64:
		if t <= math.MaxInt64 {
			return int64(t)
		}
		return float64(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case yaml.MapSlice:
		out := make(map[string]any, len(t))
		for _, item := range t {
			out[fmt.Sprint(item.Key)] = normalize(item.Value)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}

// DecodeClasses parses a JSON-encoded payload into the same shapes Load
// produces.
func DecodeClasses(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return normalize(v), nil
}
