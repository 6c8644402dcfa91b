package assistant

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	timetableRepo "timetable/database/repository/timetable"
	"timetable/models"

	"go.uber.org/zap"
)

const (
	msgFallback      = "Sorry, I didn’t understand that. Could you repeat?"
	msgNoMoreClasses = "🎉 You have no more classes today!"
	msgAskCourseName = "Please tell me the course name (e.g., OOPS, DBMS)."
	paramDateTime    = "date-time"
	paramCourseName  = "course_name"
	clockLayout      = "15:04"
)

// DefaultAssistantService implements AssistantService over a DayReader.
type DefaultAssistantService struct {
	days     *DayReader
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewDefaultAssistantService resolves "today" in loc. now may be nil.
func NewDefaultAssistantService(days *DayReader, loc *time.Location, now func() time.Time, logger *zap.Logger) *DefaultAssistantService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &DefaultAssistantService{days: days, location: loc, now: now, logger: logger}
}

func (s *DefaultAssistantService) today() time.Time {
	return s.now().In(s.location)
}

// Fulfill dispatches on the intent display name.
func (s *DefaultAssistantService) Fulfill(ctx context.Context, req models.WebhookRequest) (string, error) {
	intent := req.QueryResult.Intent.DisplayName
	params := req.QueryResult.Parameters
	s.logger.Info("Fulfill: intent triggered", zap.String("intent", intent), zap.Any("parameters", params))

	switch intent {
	case IntentTodayClasses:
		return s.TodayClasses(ctx, ResolveDay(params[paramDateTime], s.today(), s.location))
	case IntentNextClass:
		return s.NextClass(ctx)
	case IntentClassLocation:
		course, _ := params[paramCourseName].(string)
		return s.ClassLocation(ctx, course)
	}
	return msgFallback, nil
}

// TodayClasses lists the classes of day.
func (s *DefaultAssistantService) TodayClasses(ctx context.Context, day string) (string, error) {
	s.logger.Debug("TodayClasses: fetching timetable", zap.String("day", day))
	doc, err := s.days.Day(ctx, day)
	if errors.Is(err, timetableRepo.ErrNotFound) {
		return fmt.Sprintf("No timetable found for %s.", day), nil
	}
	if err != nil {
		return "", err
	}
	if len(doc.Classes) == 0 {
		return fmt.Sprintf("No classes found for %s.", day), nil
	}

	lines := make([]string, len(doc.Classes))
	for i, c := range doc.Classes {
		lines[i] = fmt.Sprintf("📘 %s (%s–%s) in %s", c.CourseName, c.StartTime, c.EndTime, c.Location)
	}
	return fmt.Sprintf("Here are your classes for %s:\n%s", day, strings.Join(lines, "\n")), nil
}

// NextClass finds the earliest class today that has not started yet.
func (s *DefaultAssistantService) NextClass(ctx context.Context) (string, error) {
	now := s.today()
	day := now.Weekday().String()

	doc, err := s.days.Day(ctx, day)
	if errors.Is(err, timetableRepo.ErrNotFound) {
		return fmt.Sprintf("No timetable found for %s.", day), nil
	}
	if err != nil {
		return "", err
	}

	next, ok := nextClass(doc.Classes, now)
	if !ok {
		return msgNoMoreClasses, nil
	}
	return fmt.Sprintf("⏰ Your next class is %s in %s at %s.", next.CourseName, next.Location, next.StartTime), nil
}

// ClassLocation searches Monday to Saturday for a course by name.
func (s *DefaultAssistantService) ClassLocation(ctx context.Context, course string) (string, error) {
	course = strings.TrimSpace(course)
	if course == "" {
		return msgAskCourseName, nil
	}

	for _, day := range models.Weekdays {
		doc, err := s.days.Day(ctx, day)
		if errors.Is(err, timetableRepo.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", err
		}
		for _, c := range doc.Classes {
			if strings.EqualFold(c.CourseName, course) {
				return fmt.Sprintf("📍 The %s class is on %s in %s at %s.", c.CourseName, day, c.Location, c.StartTime), nil
			}
		}
	}
	return fmt.Sprintf("I couldn’t find any class named %s.", course), nil
}

func nextClass(classes []models.ClassEntry, now time.Time) (models.ClassEntry, bool) {
	type upcoming struct {
		at    time.Time
		entry models.ClassEntry
	}
	var candidates []upcoming
	for _, c := range classes {
		at, err := clockOn(now, c.StartTime)
		if err != nil {
			continue
		}
		if at.After(now) {
			candidates = append(candidates, upcoming{at: at, entry: c})
		}
	}
	if len(candidates) == 0 {
		return models.ClassEntry{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].at.Before(candidates[j].at) })
	return candidates[0].entry, true
}

// clockOn places an "HH:MM" time on the calendar day of ref.
func clockOn(ref time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour(), t.Minute(), 0, 0, ref.Location()), nil
}

// ResolveDay returns the weekday named by a Dialogflow date-time parameter,
// or the weekday of now when the parameter is absent or unreadable.
func ResolveDay(param any, now time.Time, loc *time.Location) string {
	if t, ok := parseDateParam(param, loc); ok {
		return t.Weekday().String()
	}
	return now.Weekday().String()
}

func parseDateParam(param any, loc *time.Location) (time.Time, bool) {
	switch v := param.(type) {
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return time.Time{}, false
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t.In(loc), true
		}
		if t, err := time.ParseInLocation("2006-01-02", v, loc); err == nil {
			return t, true
		}
	case map[string]any:
		for _, k := range []string{"date_time", "startDateTime", "startDate"} {
			if t, ok := parseDateParam(v[k], loc); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
