package model

import (
	"time"

	"github.com/google/uuid"
)

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusScheduled DonationStatus = "scheduled"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusCancelled DonationStatus = "cancelled"
)

// Donation tracks one donor fulfilling one request. HospitalID is set at
// acceptance; AIRecommendedHospital records whether the advisor picked it
// or the deterministic fallback did. DonationDate is written exactly once,
// on the transition into completed.
type Donation struct {
	Base
	DonorID               uuid.UUID      `db:"donor_id" json:"donor_id"`
	BloodRequestID        uuid.UUID      `db:"blood_request_id" json:"blood_request_id"`
	HospitalID            *uuid.UUID     `db:"hospital_id" json:"hospital_id,omitempty"`
	Status                DonationStatus `db:"status" json:"status"`
	DonationDate          *time.Time     `db:"donation_date" json:"donation_date,omitempty"`
	AIRecommendedHospital bool           `db:"ai_recommended_hospital" json:"ai_recommended_hospital"`
}

type CreateDonationRequest struct {
	BloodRequestID uuid.UUID `json:"blood_request_id" binding:"required"`
	LocationLat    *float64  `json:"location_lat"`
	LocationLong   *float64  `json:"location_long"`
}

type AcceptDonationRequest struct {
	DonorLat  *float64 `json:"donor_lat" binding:"required"`
	DonorLong *float64 `json:"donor_long" binding:"required"`
}

// AcceptResult is what a successful accept hands back to the caller.
type AcceptResult struct {
	Donation   *Donation  `json:"donation"`
	Hospital   *Hospital  `json:"hospital,omitempty"`
	ChatRoomID uuid.UUID  `json:"chat_room_id"`
}

type DonationFilters struct {
	DonorID        uuid.UUID
	BloodRequestID uuid.UUID
	HospitalID     uuid.UUID
	Status         DonationStatus
}
