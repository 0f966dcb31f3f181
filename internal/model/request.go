package model

import (
	"github.com/google/uuid"

	"github.com/projectred/donor-api/pkg/geo"
)

type BloodRequestStatus string

const (
	BloodRequestStatusPending   BloodRequestStatus = "pending"
	BloodRequestStatusDonating  BloodRequestStatus = "donating"
	BloodRequestStatusAccepted  BloodRequestStatus = "accepted"
	BloodRequestStatusCompleted BloodRequestStatus = "completed"
	BloodRequestStatusCancelled BloodRequestStatus = "cancelled"
)

// BloodRequest is a patient's ask for blood. Its coordinate is the
// request-time location and never changes afterwards.
type BloodRequest struct {
	Base
	PatientID     uuid.UUID          `db:"patient_id" json:"patient_id"`
	BloodGroup    BloodGroup         `db:"blood_group" json:"blood_group"`
	UnitsRequired int                `db:"units_required" json:"units_required"`
	Urgency       string             `db:"urgency" json:"urgency"`
	Reason        string             `db:"reason" json:"reason,omitempty"`
	LocationLat   float64            `db:"location_lat" json:"location_lat"`
	LocationLong  float64            `db:"location_long" json:"location_long"`
	Status        BloodRequestStatus `db:"status" json:"status"`
}

func (r *BloodRequest) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: r.LocationLat, Long: r.LocationLong}
}

// Open reports whether a donor can still commit to this request.
func (r *BloodRequest) Open() bool {
	return r.Status == BloodRequestStatusPending || r.Status == BloodRequestStatusDonating
}

type CreateBloodRequestRequest struct {
	BloodGroup    string  `json:"blood_group" binding:"required,bloodgroup"`
	UnitsRequired int     `json:"units_required" binding:"required,gte=1"`
	Urgency       string  `json:"urgency" binding:"required,max=100"`
	Reason        string  `json:"reason"`
	LocationLat   float64 `json:"location_lat" binding:"required"`
	LocationLong  float64 `json:"location_long" binding:"required"`
}

// RequestMatch pairs an open request with its distance from a donor.
type RequestMatch struct {
	Request    *BloodRequest `json:"request"`
	DistanceKm float64       `json:"distance_km"`
}

type BloodRequestFilters struct {
	Status     BloodRequestStatus
	BloodGroup BloodGroup
}
