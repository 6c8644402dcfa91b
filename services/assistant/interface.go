package assistant

import (
	"context"

	"timetable/models"
)

const (
	IntentTodayClasses  = "GetTodayClasses"
	IntentNextClass     = "GetNextClass"
	IntentClassLocation = "GetClassLocation"
)

// AssistantService answers timetable questions from the chat agent.
type AssistantService interface {
	Fulfill(ctx context.Context, req models.WebhookRequest) (string, error)
	TodayClasses(ctx context.Context, day string) (string, error)
	NextClass(ctx context.Context) (string, error)
	ClassLocation(ctx context.Context, course string) (string, error)
}
