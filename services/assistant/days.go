package assistant

import (
	"context"
	"fmt"

	timetableRepo "timetable/database/repository/timetable"
	"timetable/models"
	"timetable/utils"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// DayReader loads day documents, through the cache when one is configured.
type DayReader struct {
	store      timetableRepo.DocumentStore
	cache      DayCache
	collection string
	logger     *zap.Logger
}

// NewDayReader returns a DayReader. cache may be nil.
func NewDayReader(store timetableRepo.DocumentStore, cache DayCache, collection string, logger *zap.Logger) *DayReader {
	return &DayReader{store: store, cache: cache, collection: collection, logger: logger}
}

// Day returns the document for day, or timetableRepo.ErrNotFound.
func (r *DayReader) Day(ctx context.Context, day string) (*models.DayDocument, error) {
	fields, err := r.fields(ctx, day)
	if err != nil {
		return nil, err
	}
	classes, err := decodeClasses(fields)
	if err != nil {
		return nil, fmt.Errorf("day %s: %w", day, err)
	}
	return &models.DayDocument{Day: day, Fields: fields, Classes: classes}, nil
}

func (r *DayReader) fields(ctx context.Context, day string) (map[string]any, error) {
	if r.cache != nil {
		fields, ok, err := r.cache.Get(ctx, r.collection, day)
		if err != nil {
			r.logger.Warn("DayReader: cache read failed", zap.String("day", day), zap.Error(err))
		} else if ok {
			return fields, nil
		}
	}

	fields, err := r.store.Get(ctx, r.collection, day)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, r.collection, day, fields); err != nil {
			r.logger.Warn("DayReader: cache write failed", zap.String("day", day), zap.Error(err))
		}
	}
	return fields, nil
}

// decodeClasses reads the "classes" field, falling back to the legacy
// "timetable" field.
func decodeClasses(fields map[string]any) ([]models.ClassEntry, error) {
	raw := fields[utils.ClassesField]
	if raw == nil {
		raw = fields[utils.LegacyClassesField]
	}
	if raw == nil {
		return nil, nil
	}

	var classes []models.ClassEntry
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &classes,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode classes: %w", err)
	}
	return classes, nil
}
