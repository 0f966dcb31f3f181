package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationBloodRequest      NotificationType = "blood_request"
	NotificationDonationAccepted  NotificationType = "donation_accepted"
	NotificationDonationCompleted NotificationType = "donation_completed"
	NotificationLifeSaved         NotificationType = "life_saved"
	NotificationHealthAlert       NotificationType = "health_alert"
	NotificationHospitalAssigned  NotificationType = "hospital_assigned"
)

// Notification is a pure output of the lifecycle: the core writes them and
// never reads them back except for the life-saved uniqueness guard.
type Notification struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	UserID    uuid.UUID        `db:"user_id" json:"user_id"`
	Type      NotificationType `db:"notification_type" json:"notification_type"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	RelatedID *uuid.UUID       `db:"related_id" json:"related_id,omitempty"`
	IsRead    bool             `db:"is_read" json:"is_read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
