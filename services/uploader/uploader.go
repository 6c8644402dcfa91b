package uploader

import (
	"context"
	"fmt"
	"strings"
	"time"

	timetableRepo "timetable/database/repository/timetable"
	"timetable/models"
	"timetable/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Invalidator drops cached copies of a day after it has been rewritten.
type Invalidator interface {
	Invalidate(ctx context.Context, collection, day string) error
}

// Options tune an Uploader. Zero values mean sequential, unthrottled writes
// with a 10s deadline each.
type Options struct {
	Collection   string
	StoreName    string
	Concurrency  int
	WritesPerSec float64
	WriteTimeout time.Duration
	Cache        Invalidator
}

// Uploader writes every entry of a SourceRecord as one document.
type Uploader struct {
	store        timetableRepo.DocumentStore
	logger       *zap.Logger
	collection   string
	storeName    string
	concurrency  int
	limiter      *rate.Limiter
	writeTimeout time.Duration
	cache        Invalidator
}

// NewUploader returns an Uploader holding the given store connection.
func NewUploader(store timetableRepo.DocumentStore, logger *zap.Logger, opts Options) *Uploader {
	u := &Uploader{
		store:        store,
		logger:       logger,
		collection:   opts.Collection,
		storeName:    opts.StoreName,
		concurrency:  opts.Concurrency,
		writeTimeout: opts.WriteTimeout,
		cache:        opts.Cache,
	}
	if u.collection == "" {
		u.collection = "timetable"
	}
	if u.storeName == "" {
		u.storeName = "Firestore"
	}
	if u.concurrency < 1 {
		u.concurrency = 1
	}
	if u.writeTimeout <= 0 {
		u.writeTimeout = 10 * time.Second
	}
	if opts.WritesPerSec > 0 {
		u.limiter = rate.NewLimiter(rate.Limit(opts.WritesPerSec), 1)
	}
	return u
}

// Collection returns the target collection name.
func (u *Uploader) Collection() string { return u.collection }

// UploadOne replaces the document for day with {"classes": classes}.
func (u *Uploader) UploadOne(ctx context.Context, day string, classes any) error {
	if u.limiter != nil {
		if err := u.limiter.Wait(ctx); err != nil {
			return newWriteError(day, err)
		}
	}

	wctx, cancel := context.WithTimeout(ctx, u.writeTimeout)
	defer cancel()

	fields := map[string]any{utils.ClassesField: classes}
	if err := u.store.Set(wctx, u.collection, day, fields); err != nil {
		return newWriteError(day, err)
	}

	if u.cache != nil {
		if err := u.cache.Invalidate(ctx, u.collection, day); err != nil {
			u.logger.Warn("UploadOne: cache invalidation failed", zap.String("day", day), zap.Error(err))
		}
	}
	return nil
}

// UploadAll writes every day of rec. A failed write is recorded in the report
// and does not stop the remaining days.
func (u *Uploader) UploadAll(ctx context.Context, rec *models.SourceRecord) *Report {
	report := &Report{
		RunID:      uuid.New().String(),
		Collection: u.collection,
		Succeeded:  []string{},
		Failed:     []KeyFailure{},
		StartedAt:  time.Now(),
	}
	logger := u.logger.With(zap.String("runId", report.RunID), zap.String("collection", u.collection))
	keys := rec.Keys()
	logger.Debug("UploadAll: starting", zap.Int("days", len(keys)), zap.Int("concurrency", u.concurrency))

	errs := make([]error, len(keys))
	g := new(errgroup.Group)
	g.SetLimit(u.concurrency)
	for i, day := range keys {
		i, day := i, day
		classes, _ := rec.Get(day)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = newWriteError(day, err)
				return nil
			}
			if err := u.UploadOne(ctx, day, classes); err != nil {
				errs[i] = err
				logger.Error("UploadAll: write failed", zap.String("day", day), zap.Error(err))
				utils.ReportError(err, map[string]string{"day": day, "runId": report.RunID})
				return nil
			}
			logger.Info(fmt.Sprintf("Uploaded %s timetable successfully.", day), zap.String("day", day))
			return nil
		})
	}
	_ = g.Wait()

	for i, day := range keys {
		if errs[i] == nil {
			report.Succeeded = append(report.Succeeded, day)
			continue
		}
		report.Failed = append(report.Failed, KeyFailure{Key: day, Reason: failureReason(errs[i]), Err: errs[i]})
	}
	report.FinishedAt = time.Now()

	if report.OK() {
		logger.Info(fmt.Sprintf("All timetables uploaded to %s!", u.storeName), zap.Int("uploaded", len(report.Succeeded)))
	} else {
		logger.Warn(fmt.Sprintf("Uploaded %d of %d timetables to %s; failed: %s",
			len(report.Succeeded), len(keys), u.storeName, strings.Join(report.FailedKeys(), ", ")),
			zap.Int("uploaded", len(report.Succeeded)),
			zap.Int("failed", len(report.Failed)))
	}
	return report
}
