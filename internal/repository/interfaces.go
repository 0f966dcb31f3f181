package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/projectred/donor-api/internal/model"
)

// All repository interfaces in one file
type (
	PersonRepository interface {
		Create(ctx context.Context, person *model.Person) error
		Get(ctx context.Context, id uuid.UUID) (*model.Person, error)
		GetByEmail(ctx context.Context, email string) (*model.Person, error)
		Update(ctx context.Context, person *model.Person) error
		// ListDonors returns donor candidates matching the filters; distance
		// filtering happens in the service layer.
		ListDonors(ctx context.Context, filters *model.PersonFilters) ([]*model.Person, error)
	}

	HospitalRepository interface {
		Create(ctx context.Context, hospital *model.Hospital) error
		Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error)
		List(ctx context.Context) ([]*model.Hospital, error)
		CreateStaff(ctx context.Context, staff *model.HospitalStaff) error
		GetStaff(ctx context.Context, id uuid.UUID) (*model.HospitalStaff, error)
		GetStaffByEmail(ctx context.Context, email string) (*model.HospitalStaff, error)
	}

	BloodRequestRepository interface {
		Create(ctx context.Context, request *model.BloodRequest) error
		Get(ctx context.Context, id uuid.UUID) (*model.BloodRequest, error)
		Update(ctx context.Context, request *model.BloodRequest) error
		List(ctx context.Context, filters *model.BloodRequestFilters) ([]*model.BloodRequest, error)
		ListForPerson(ctx context.Context, personID uuid.UUID) ([]*model.BloodRequest, error)
	}

	DonationRepository interface {
		Create(ctx context.Context, donation *model.Donation) error
		Get(ctx context.Context, id uuid.UUID) (*model.Donation, error)
		ListByDonor(ctx context.Context, donorID uuid.UUID) ([]*model.Donation, error)
		ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.Donation, error)
		// MarkScheduled transitions pending → scheduled as a compare-and-set:
		// it reports false when the donation was no longer pending, which the
		// lifecycle surfaces as a conflict. Hospital assignment and its
		// provenance bit ride along in the same statement.
		MarkScheduled(ctx context.Context, id uuid.UUID, hospitalID *uuid.UUID, aiRecommended bool) (bool, error)
		// MarkCompleted transitions scheduled → completed. donation_date is
		// only written if still unset, so re-completion never moves it.
		MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
		MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error)
		CountCompletedForRequest(ctx context.Context, requestID uuid.UUID) (int, error)
	}

	BloodTestRepository interface {
		Create(ctx context.Context, test *model.BloodTest) error
		GetByDonation(ctx context.Context, donationID uuid.UUID) (*model.BloodTest, error)
		Update(ctx context.Context, test *model.BloodTest) error
	}

	ChatRoomRepository interface {
		// GetOrCreate returns the room for the donation, creating it when
		// absent. The bool reports whether a new room was created.
		GetOrCreate(ctx context.Context, room *model.ChatRoom) (*model.ChatRoom, bool, error)
		Get(ctx context.Context, id uuid.UUID) (*model.ChatRoom, error)
		GetByDonation(ctx context.Context, donationID uuid.UUID) (*model.ChatRoom, error)
		Deactivate(ctx context.Context, donationID uuid.UUID) error
		ListForPerson(ctx context.Context, personID uuid.UUID) ([]*model.ChatRoom, error)
		CreateMessage(ctx context.Context, msg *model.Message) error
		ListMessages(ctx context.Context, roomID uuid.UUID) ([]*model.Message, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
		MarkRead(ctx context.Context, id uuid.UUID) error
		MarkAllRead(ctx context.Context, userID uuid.UUID) error
		// ExistsLifeSaved reports whether a life-saved notification already
		// exists for the related donation. Existence check, not a boolean
		// flag: several code paths can attempt the emission.
		ExistsLifeSaved(ctx context.Context, userID, relatedID uuid.UUID) (bool, error)
	}
)
