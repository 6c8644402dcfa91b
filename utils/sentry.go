package utils

import (
	"time"

	"github.com/getsentry/sentry-go"
)

var sentryEnabled bool

// InitSentry enables error reporting when a DSN is configured.
func InitSentry(dsn, env string) error {
	if dsn == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
	}); err != nil {
		return err
	}
	sentryEnabled = true
	return nil
}

// ReportError sends err to Sentry tagged with the given key/value pairs.
func ReportError(err error, tags map[string]string) {
	if !sentryEnabled || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// AddBreadcrumb records a step for the next reported error.
func AddBreadcrumb(category, message string) {
	if !sentryEnabled {
		return
	}
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Category:  category,
		Message:   message,
		Level:     sentry.LevelInfo,
		Timestamp: time.Now(),
	})
}

// FlushSentry waits for buffered events before the process exits.
func FlushSentry() {
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
}
