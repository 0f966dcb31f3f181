package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/model"
)

type notificationRepo struct {
	s *Store
}

func (r *notificationRepo) Create(ctx context.Context, notification *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	r.s.notifications[notification.UserID] = append(r.s.notifications[notification.UserID], *notification)
	return nil
}

func (r *notificationRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ns := r.s.notifications[userID]
	out := make([]*model.Notification, 0, len(ns))
	for i := len(ns) - 1; i >= 0; i-- {
		cp := ns[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for userID, ns := range r.s.notifications {
		for i := range ns {
			if ns[i].ID == id {
				ns[i].IsRead = true
				r.s.notifications[userID] = ns
				return nil
			}
		}
	}
	return apperrors.NotFound("notification", nil)
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ns := r.s.notifications[userID]
	for i := range ns {
		ns[i].IsRead = true
	}
	r.s.notifications[userID] = ns
	return nil
}

func (r *notificationRepo) ExistsLifeSaved(ctx context.Context, userID, relatedID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, n := range r.s.notifications[userID] {
		if n.Type == model.NotificationLifeSaved && n.RelatedID != nil && *n.RelatedID == relatedID {
			return true, nil
		}
	}
	return false, nil
}
