package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"timetable/database/repository/timetable/timetabletest"
	"timetable/models"
	"timetable/services/uploader"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	fail  map[string]bool
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	var p UploadDayPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return nil, err
	}
	if f.fail[p.Day] {
		return nil, errors.New("redis down")
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: p.RunID + ":" + p.Day}, nil
}

func Test_EnqueueRecord(t *testing.T) {
	rec := models.NewSourceRecord()
	rec.Put("Monday", []any{map[string]any{"course_name": "DBMS", "credits": int64(4)}})
	rec.Put("Tuesday", []any{})
	rec.Put("Wednesday", nil)

	enq := &fakeEnqueuer{fail: map[string]bool{"Tuesday": true}}
	report := EnqueueRecord(context.Background(), enq, "timetable", rec, zap.NewNop())

	if want := []string{"Monday", "Wednesday"}; !reflect.DeepEqual(report.Succeeded, want) {
		t.Errorf("queued = %v, want %v", report.Succeeded, want)
	}
	if want := []string{"Tuesday"}; !reflect.DeepEqual(report.FailedKeys(), want) {
		t.Errorf("failed = %v, want %v", report.FailedKeys(), want)
	}
	if len(enq.tasks) != 2 || enq.tasks[0].Type() != TypeUploadDay {
		t.Fatalf("unexpected tasks %v", enq.tasks)
	}
}

func Test_HandleUploadDay_RoundTrip(t *testing.T) {
	store := timetabletest.NewMemoryStore()
	u := uploader.NewUploader(store, zap.NewNop(), uploader.Options{Collection: "timetable"})
	handler := HandleUploadDay(u, zap.NewNop())

	rec := models.NewSourceRecord()
	classes := []any{map[string]any{"course_name": "DBMS", "credits": int64(4)}}
	rec.Put("Monday", classes)
	enq := &fakeEnqueuer{}
	EnqueueRecord(context.Background(), enq, "timetable", rec, zap.NewNop())

	if err := handler(context.Background(), enq.tasks[0]); err != nil {
		t.Fatalf("handler: %v", err)
	}
	want := map[string]any{"classes": classes}
	if got := store.Docs("timetable")["Monday"]; !reflect.DeepEqual(got, want) {
		t.Errorf("document = %#v, want %#v", got, want)
	}
}

func Test_HandleUploadDay_Errors(t *testing.T) {
	store := timetabletest.NewMemoryStore()
	store.FailKeys["Friday"] = errors.New("unavailable")
	u := uploader.NewUploader(store, zap.NewNop(), uploader.Options{Collection: "timetable"})
	handler := HandleUploadDay(u, zap.NewNop())

	task := func(p UploadDayPayload) *asynq.Task {
		b, _ := json.Marshal(p)
		return asynq.NewTask(TypeUploadDay, b)
	}

	tests := []struct {
		name      string
		task      *asynq.Task
		skipRetry bool
	}{
		{name: "Invalid payload", task: asynq.NewTask(TypeUploadDay, []byte("{")), skipRetry: true},
		{name: "Other collection", task: task(UploadDayPayload{Collection: "rooms", Day: "Monday", Classes: json.RawMessage(`[]`)}), skipRetry: true},
		{name: "Write failure is retried", task: task(UploadDayPayload{Collection: "timetable", Day: "Friday", Classes: json.RawMessage(`[]`)})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := handler(context.Background(), tt.task)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if got := errors.Is(err, asynq.SkipRetry); got != tt.skipRetry {
				t.Errorf("SkipRetry = %v, want %v (err %v)", got, tt.skipRetry, err)
			}
		})
	}
}
