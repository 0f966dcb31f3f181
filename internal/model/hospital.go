package model

import (
	"github.com/google/uuid"

	"github.com/projectred/donor-api/pkg/geo"
)

// Hospital is reference data: name is unique, coordinates immutable as far
// as the matching engine is concerned.
type Hospital struct {
	Base
	Name         string  `db:"name" json:"name"`
	Address      string  `db:"address" json:"address"`
	PhoneNumber  string  `db:"phone_number" json:"phone_number"`
	LocationLat  float64 `db:"location_lat" json:"location_lat"`
	LocationLong float64 `db:"location_long" json:"location_long"`
}

func (h *Hospital) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: h.LocationLat, Long: h.LocationLong}
}

// HospitalStaff is the login account a hospital operates under. It is a
// session principal source, distinct from the Hospital reference record.
type HospitalStaff struct {
	Base
	HospitalID   uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
}

type RegisterHospitalRequest struct {
	Name         string  `json:"name" binding:"required"`
	Address      string  `json:"address" binding:"required"`
	PhoneNumber  string  `json:"phone_number" binding:"required,max=15"`
	LocationLat  float64 `json:"location_lat" binding:"required"`
	LocationLong float64 `json:"location_long" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=8"`
}

// HospitalMatch pairs a hospital with its distance from a search origin.
type HospitalMatch struct {
	Hospital   *Hospital `json:"hospital"`
	DistanceKm float64   `json:"distance_km"`
}

// HospitalCandidate is one entry of the ranked list handed to the hospital
// advisor: the hospital plus its distances from donor and patient.
type HospitalCandidate struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	DonorDistance   float64   `json:"donor_distance"`
	PatientDistance float64   `json:"patient_distance"`
	TotalDistance   float64   `json:"total_distance"`
}
