package uploader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	timetableRepo "timetable/database/repository/timetable"
	"timetable/database/repository/timetable/timetabletest"
	"timetable/models"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestUploader(store timetableRepo.DocumentStore, opts Options) (*Uploader, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return NewUploader(store, zap.New(core), opts), logs
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func record(pairs ...any) *models.SourceRecord {
	rec := models.NewSourceRecord()
	for i := 0; i < len(pairs); i += 2 {
		rec.Put(pairs[i].(string), pairs[i+1])
	}
	return rec
}

func messages(logs *observer.ObservedLogs) []string {
	var out []string
	for _, e := range logs.All() {
		out = append(out, e.Message)
	}
	return out
}

func Test_UploadAll_MondayScenario(t *testing.T) {
	path := writeFile(t, "timetable.json", `{"Monday": [{"subject": "Math", "time": "9am"}]}`)
	rec, err := NewLoader(nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	store := timetabletest.NewMemoryStore()
	u, logs := newTestUploader(store, Options{})
	report := u.UploadAll(context.Background(), rec)

	if !report.OK() {
		t.Fatalf("unexpected failures: %+v", report.Failed)
	}
	doc, ok := store.Docs("timetable")["Monday"]
	if !ok {
		t.Fatalf("document Monday was not written")
	}
	want := map[string]any{
		"classes": []any{map[string]any{"subject": "Math", "time": "9am"}},
	}
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("document Monday = %#v, want %#v", doc, want)
	}

	got := messages(logs)
	wantLines := []string{
		"Uploaded Monday timetable successfully.",
		"All timetables uploaded to Firestore!",
	}
	if !reflect.DeepEqual(got, wantLines) {
		t.Errorf("console lines = %q, want %q", got, wantLines)
	}
}

func Test_UploadAll_WritesOneDocumentPerKey(t *testing.T) {
	tests := []struct {
		name        string
		concurrency int
	}{
		{name: "Sequential", concurrency: 1},
		{name: "Parallel", concurrency: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := models.NewSourceRecord()
			for _, day := range models.Weekdays {
				rec.Put(day, []any{map[string]any{"course_name": day + " course"}})
			}

			store := timetabletest.NewMemoryStore()
			u, _ := newTestUploader(store, Options{Concurrency: tt.concurrency})
			report := u.UploadAll(context.Background(), rec)

			if !reflect.DeepEqual(report.Succeeded, models.Weekdays) {
				t.Errorf("succeeded = %v, want %v", report.Succeeded, models.Weekdays)
			}
			docs := store.Docs("timetable")
			if len(docs) != len(models.Weekdays) {
				t.Fatalf("got %d documents, want %d", len(docs), len(models.Weekdays))
			}
			for _, day := range models.Weekdays {
				classes, _ := rec.Get(day)
				if !reflect.DeepEqual(docs[day], map[string]any{"classes": classes}) {
					t.Errorf("document %s = %#v", day, docs[day])
				}
			}
		})
	}
}

func Test_UploadAll_IsIdempotent(t *testing.T) {
	rec := record("Monday", []any{"a"}, "Tuesday", map[string]any{"x": int64(1)})
	store := timetabletest.NewMemoryStore()
	store.Put("timetable", "Monday", map[string]any{"classes": "old", "stale": true})
	u, _ := newTestUploader(store, Options{})

	u.UploadAll(context.Background(), rec)
	first := store.Docs("timetable")
	u.UploadAll(context.Background(), rec)
	second := store.Docs("timetable")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second run changed documents:\nfirst:  %#v\nsecond: %#v", first, second)
	}
	if _, ok := second["Monday"]["stale"]; ok {
		t.Errorf("set must replace the whole document, stale field survived")
	}
}

func Test_UploadAll_EmptyRecord(t *testing.T) {
	store := timetabletest.NewMemoryStore()
	u, logs := newTestUploader(store, Options{StoreName: "Firestore"})
	report := u.UploadAll(context.Background(), models.NewSourceRecord())

	if store.SetCalls() != 0 {
		t.Errorf("got %d writes for an empty record", store.SetCalls())
	}
	if !report.OK() || len(report.Succeeded) != 0 {
		t.Errorf("unexpected report %+v", report)
	}
	got := messages(logs)
	if len(got) != 1 || got[0] != "All timetables uploaded to Firestore!" {
		t.Errorf("console lines = %q, want only the completion line", got)
	}
}

func Test_UploadAll_IsolatesFailures(t *testing.T) {
	rec := record("Monday", 1, "Tuesday", 2, "bad/key", 3, "Wednesday", 4)
	store := timetabletest.NewMemoryStore()
	store.FailKeys["Tuesday"] = errors.New("permission denied")
	u, logs := newTestUploader(store, Options{})

	report := u.UploadAll(context.Background(), rec)

	if want := []string{"Monday", "Wednesday"}; !reflect.DeepEqual(report.Succeeded, want) {
		t.Errorf("succeeded = %v, want %v", report.Succeeded, want)
	}
	if want := []string{"Tuesday", "bad/key"}; !reflect.DeepEqual(report.FailedKeys(), want) {
		t.Errorf("failed = %v, want %v", report.FailedKeys(), want)
	}
	if report.Failed[1].Reason != "invalid_key" {
		t.Errorf("reason for bad/key = %q, want invalid_key", report.Failed[1].Reason)
	}
	var werr *WriteError
	if !errors.As(report.Failed[0].Err, &werr) || werr.Key != "Tuesday" {
		t.Errorf("failure is not a WriteError for Tuesday: %v", report.Failed[0].Err)
	}
	if store.SetCalls() != 2 {
		t.Errorf("got %d writes, want 2", store.SetCalls())
	}

	last := logs.All()[logs.Len()-1]
	if last.Level != zapcore.WarnLevel || !strings.Contains(last.Message, "Tuesday, bad/key") {
		t.Errorf("summary line = %q (%v)", last.Message, last.Level)
	}
}

func Test_UploadAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := timetabletest.NewMemoryStore()
	u, _ := newTestUploader(store, Options{})
	report := u.UploadAll(ctx, record("Monday", 1, "Tuesday", 2))

	if store.SetCalls() != 0 {
		t.Errorf("got %d writes after cancellation", store.SetCalls())
	}
	for _, f := range report.Failed {
		if f.Reason != "cancelled" {
			t.Errorf("reason for %s = %q, want cancelled", f.Key, f.Reason)
		}
	}
	if len(report.Failed) != 2 {
		t.Errorf("got %d failures, want 2", len(report.Failed))
	}
}

type recordingInvalidator struct {
	mu   sync.Mutex
	days []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, collection, day string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.days = append(r.days, collection+"/"+day)
	return nil
}

func Test_UploadOne_InvalidatesCacheAfterWrite(t *testing.T) {
	inv := &recordingInvalidator{}
	store := timetabletest.NewMemoryStore()
	store.FailKeys["Tuesday"] = fmt.Errorf("unavailable")
	u, _ := newTestUploader(store, Options{Collection: "rooms", Cache: inv, WritesPerSec: 1000})

	if err := u.UploadOne(context.Background(), "Monday", nil); err != nil {
		t.Fatalf("UploadOne(Monday): %v", err)
	}
	if err := u.UploadOne(context.Background(), "Tuesday", nil); err == nil {
		t.Fatalf("UploadOne(Tuesday) should fail")
	}
	if want := []string{"rooms/Monday"}; !reflect.DeepEqual(inv.days, want) {
		t.Errorf("invalidated = %v, want %v", inv.days, want)
	}
	if _, ok := store.Docs("rooms")["Monday"]; !ok {
		t.Errorf("document not written to the configured collection")
	}
}
