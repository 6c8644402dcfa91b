package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"timetable/models"
	"timetable/services/uploader"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeUploadDay = "timetable:upload-day"

const uploadMaxRetry = 5

// UploadDayPayload carries one day of a source record.
type UploadDayPayload struct {
	RunID      string          `json:"runId"`
	Collection string          `json:"collection"`
	Day        string          `json:"day"`
	Classes    json.RawMessage `json:"classes"`
}

func NewUploadDayTask(payload UploadDayPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeUploadDay, b)
	opts := []asynq.Option{
		asynq.MaxRetry(uploadMaxRetry),
		asynq.TaskID(payload.RunID + ":" + payload.Day),
	}
	return task, opts, nil
}

// Enqueuer is the part of *asynq.Client used to schedule tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueueRecord schedules one upload task per day. Succeeded in the returned
// report lists the days that were enqueued, not yet written.
func EnqueueRecord(ctx context.Context, enq Enqueuer, collection string, rec *models.SourceRecord, logger *zap.Logger) *uploader.Report {
	report := &uploader.Report{
		RunID:      uuid.New().String(),
		Collection: collection,
		Succeeded:  []string{},
		Failed:     []uploader.KeyFailure{},
		StartedAt:  time.Now(),
	}
	logger = logger.With(zap.String("runId", report.RunID))

	for _, day := range rec.Keys() {
		classes, _ := rec.Get(day)
		raw, err := json.Marshal(classes)
		if err == nil {
			var task *asynq.Task
			var opts []asynq.Option
			task, opts, err = NewUploadDayTask(UploadDayPayload{
				RunID:      report.RunID,
				Collection: collection,
				Day:        day,
				Classes:    raw,
			})
			if err == nil {
				_, err = enq.EnqueueContext(ctx, task, opts...)
			}
		}
		if err != nil {
			logger.Error("EnqueueRecord: failed to enqueue day", zap.String("day", day), zap.Error(err))
			report.Failed = append(report.Failed, uploader.KeyFailure{Key: day, Reason: "enqueue_failed", Err: err})
			continue
		}
		logger.Info(fmt.Sprintf("Queued %s timetable for upload.", day), zap.String("day", day))
		report.Succeeded = append(report.Succeeded, day)
	}
	report.FinishedAt = time.Now()
	logger.Info("EnqueueRecord: done", zap.Int("queued", len(report.Succeeded)), zap.Int("failed", len(report.Failed)))
	return report
}

// HandleUploadDay writes the task's day with u. Write failures are returned so
// asynq retries them; malformed tasks are not retried.
func HandleUploadDay(u *uploader.Uploader, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p UploadDayPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("HandleUploadDay: invalid payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if p.Collection != u.Collection() {
			logger.Error("HandleUploadDay: collection mismatch", zap.String("task", p.Collection), zap.String("worker", u.Collection()))
			return fmt.Errorf("task for collection %q, worker writes %q: %w", p.Collection, u.Collection(), asynq.SkipRetry)
		}
		classes, err := uploader.DecodeClasses(p.Classes)
		if err != nil {
			return fmt.Errorf("day %s: %v: %w", p.Day, err, asynq.SkipRetry)
		}
		if err := u.UploadOne(ctx, p.Day, classes); err != nil {
			logger.Warn("HandleUploadDay: write failed", zap.String("day", p.Day), zap.String("runId", p.RunID), zap.Error(err))
			return err
		}
		logger.Info(fmt.Sprintf("Uploaded %s timetable successfully.", p.Day), zap.String("day", p.Day), zap.String("runId", p.RunID))
		return nil
	}
}
