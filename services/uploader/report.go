package uploader

import (
	"context"
	"errors"
	"time"

	timetableRepo "timetable/database/repository/timetable"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// KeyFailure records why one day could not be written.
type KeyFailure struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// Report is the outcome of one UploadAll run.
type Report struct {
	RunID      string       `json:"runId"`
	Collection string       `json:"collection"`
	Succeeded  []string     `json:"succeeded"`
	Failed     []KeyFailure `json:"failed"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
}

// OK reports whether every day was written.
func (r *Report) OK() bool { return len(r.Failed) == 0 }

// FailedKeys returns the days that were not written, in source order.
func (r *Report) FailedKeys() []string {
	keys := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		keys[i] = f.Key
	}
	return keys
}

// failureReason tags a write error with a short machine-friendly reason.
func failureReason(err error) string {
	switch {
	case errors.Is(err, timetableRepo.ErrInvalidKey):
		return "invalid_key"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}
	switch status.Code(err) {
	case codes.PermissionDenied, codes.Unauthenticated:
		return "permission_denied"
	case codes.ResourceExhausted:
		return "quota_exceeded"
	case codes.Unavailable:
		return "unavailable"
	}
	return "write_failed"
}
