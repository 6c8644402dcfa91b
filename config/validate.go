package config

import (
	"fmt"
	"time"
)

// Validate rejects settings the commands cannot run with.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendFirestore, BackendMongo:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want %q or %q)", c.StoreBackend, BackendFirestore, BackendMongo)
	}
	switch c.UploadMode {
	case ModeDirect, ModeQueue:
	default:
		return fmt.Errorf("unknown UPLOAD_MODE %q (want %q or %q)", c.UploadMode, ModeDirect, ModeQueue)
	}
	if c.TimetableCollection == "" {
		return fmt.Errorf("TIMETABLE_COLLECTION must not be empty")
	}
	if c.UploadConcurrency < 1 {
		return fmt.Errorf("UPLOAD_CONCURRENCY must be at least 1, got %d", c.UploadConcurrency)
	}
	if c.UploadWritesPerSecond < 0 {
		return fmt.Errorf("UPLOAD_WRITES_PER_SECOND must not be negative")
	}
	if c.UploadWriteTimeout <= 0 {
		return fmt.Errorf("UPLOAD_WRITE_TIMEOUT must be positive")
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.TimeZone, err)
	}
	return nil
}

// Location returns the zone used to resolve "today".
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}
