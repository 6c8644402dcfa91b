package notification

import (
	"context"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// Sender is the part of the FCM client used here.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// NotificationService announces timetable changes.
type NotificationService interface {
	NotifyTimetableUpdated(ctx context.Context, collection string, days []string) error
}

// DefaultNotificationService pushes to an FCM topic.
type DefaultNotificationService struct {
	sender Sender
	topic  string
	logger *zap.Logger
}

func NewDefaultNotificationService(sender Sender, topic string, logger *zap.Logger) (*DefaultNotificationService, error) {
	if sender == nil || topic == "" {
		return nil, fmt.Errorf("notification service initialization error: sender or topic is missing")
	}
	return &DefaultNotificationService{sender: sender, topic: topic, logger: logger}, nil
}

// NotifyTimetableUpdated sends one topic message listing the updated days.
func (s *DefaultNotificationService) NotifyTimetableUpdated(ctx context.Context, collection string, days []string) error {
	if len(days) == 0 {
		return nil
	}
	msg := &messaging.Message{
		Topic: s.topic,
		Notification: &messaging.Notification{
			Title: "Timetable updated",
			Body:  "New timetable for " + strings.Join(days, ", "),
		},
		Data: map[string]string{
			"collection": collection,
			"days":       strings.Join(days, ","),
		},
	}

	response, err := s.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("NotifyTimetableUpdated: failed to send FCM message: %w", err)
	}
	s.logger.Info("NotifyTimetableUpdated: successfully sent message", zap.String("topic", s.topic), zap.String("messageId", response))
	return nil
}
