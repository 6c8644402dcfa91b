package timetableRepo

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func Test_ValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{key: "Monday"},
		{key: "day 1"},
		{key: "Mittwoch-ü"},
		{key: "", wantErr: true},
		{key: "a/b", wantErr: true},
		{key: ".", wantErr: true},
		{key: "..", wantErr: true},
		{key: "__id__", wantErr: true},
		{key: "__", wantErr: false},
		{key: strings.Repeat("x", 1501), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidKey) {
				t.Errorf("error %v does not wrap ErrInvalidKey", err)
			}
		})
	}
}

func Test_plainMap(t *testing.T) {
	in := bson.M{
		"classes": primitive.A{
			primitive.D{{Key: "course_name", Value: "DBMS"}, {Key: "credits", Value: int32(4)}},
		},
		"meta": bson.M{"rev": int64(2)},
	}
	want := map[string]any{
		"classes": []any{map[string]any{"course_name": "DBMS", "credits": int64(4)}},
		"meta":    map[string]any{"rev": int64(2)},
	}
	if got := plainMap(in); !reflect.DeepEqual(got, want) {
		t.Errorf("plainMap() = %#v, want %#v", got, want)
	}
}
