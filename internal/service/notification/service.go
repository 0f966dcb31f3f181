package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/projectred/donor-api/pkg/logger"
	"github.com/projectred/donor-api/pkg/messaging"
	"github.com/projectred/donor-api/pkg/metrics"

	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository"
)

// Service persists notifications and pushes them to connected clients
// over the broker. The lifecycle services only write through here, so
// emission policy (channels, metrics, the life-saved guard) lives in one
// place.
type Service struct {
	repo    repository.NotificationRepository
	broker  messaging.Broker
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewService creates the dispatcher. broker and metrics may be nil; the
// tests run without either.
func NewService(repo repository.NotificationRepository, broker messaging.Broker, m *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{repo: repo, broker: broker, metrics: m, logger: log}
}

// Emit persists a notification and publishes it. A failed publish is
// logged and swallowed: the persisted row is the source of truth.
func (s *Service) Emit(ctx context.Context, userID uuid.UUID, typ model.NotificationType, title, message string, relatedID *uuid.UUID) error {
	n := &model.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to emit notification: %w", err)
	}

	if s.metrics != nil {
		s.metrics.NotificationsEmitted.WithLabelValues(string(typ)).Inc()
	}

	if s.broker != nil {
		channel := "notifications:" + userID.String()
		if err := s.broker.Publish(ctx, channel, n); err != nil && s.logger != nil {
			s.logger.Error(err, "failed to publish notification", "channel", channel)
		}
	}
	return nil
}

// EmitLifeSaved emits the life-saved notification for a donation at most
// once. It reports whether a new notification went out.
func (s *Service) EmitLifeSaved(ctx context.Context, donorID, donationID uuid.UUID) (bool, error) {
	exists, err := s.repo.ExistsLifeSaved(ctx, donorID, donationID)
	if err != nil {
		return false, fmt.Errorf("failed to check life-saved notification: %w", err)
	}
	if exists {
		return false, nil
	}

	err = s.Emit(ctx, donorID, model.NotificationLifeSaved,
		"You saved a life!",
		"The hospital confirmed your donation saved a life. Thank you.",
		&donationID)
	if err != nil {
		return false, err
	}

	if s.metrics != nil {
		s.metrics.LivesSaved.Inc()
	}
	return true, nil
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	notifications, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
