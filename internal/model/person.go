package model

import (
	"github.com/projectred/donor-api/pkg/geo"
)

type BloodGroup string

const (
	BloodGroupAPos  BloodGroup = "A+"
	BloodGroupANeg  BloodGroup = "A-"
	BloodGroupBPos  BloodGroup = "B+"
	BloodGroupBNeg  BloodGroup = "B-"
	BloodGroupABPos BloodGroup = "AB+"
	BloodGroupABNeg BloodGroup = "AB-"
	BloodGroupOPos  BloodGroup = "O+"
	BloodGroupONeg  BloodGroup = "O-"
)

func (g BloodGroup) Valid() bool {
	switch g {
	case BloodGroupAPos, BloodGroupANeg, BloodGroupBPos, BloodGroupBNeg,
		BloodGroupABPos, BloodGroupABNeg, BloodGroupOPos, BloodGroupONeg:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// Person is a registered user of the platform. The same person can act as
// a donor and as a recipient; the flags control which flows apply.
// Location is the last known coordinate and may be absent.
type Person struct {
	Base
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	BloodGroup   BloodGroup `db:"blood_group" json:"blood_group"`
	Age          int        `db:"age" json:"age"`
	Gender       Gender     `db:"gender" json:"gender"`
	PhoneNumber  string     `db:"phone_number" json:"phone_number"`
	Address      string     `db:"address" json:"address"`
	IsDonor      bool       `db:"is_donor" json:"is_donor"`
	IsRecipient  bool       `db:"is_recipient" json:"is_recipient"`
	LocationLat  *float64   `db:"location_lat" json:"location_lat,omitempty"`
	LocationLong *float64   `db:"location_long" json:"location_long,omitempty"`
}

func (p *Person) FullName() string {
	if p.FirstName == "" && p.LastName == "" {
		return p.Email
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Coordinate returns the last known location, or nil when unknown.
func (p *Person) Coordinate() *geo.Coordinate {
	if p.LocationLat == nil || p.LocationLong == nil {
		return nil
	}
	return &geo.Coordinate{Lat: *p.LocationLat, Long: *p.LocationLong}
}

// SetCoordinate overwrites the last known location.
func (p *Person) SetCoordinate(c geo.Coordinate) {
	lat, long := c.Lat, c.Long
	p.LocationLat = &lat
	p.LocationLong = &long
}

// DonorMatch pairs a donor with their distance from a search origin.
type DonorMatch struct {
	Donor      *Person `json:"donor"`
	DistanceKm float64 `json:"distance_km"`
}

type RegisterPersonRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=8"`
	FirstName   string   `json:"first_name" binding:"required"`
	LastName    string   `json:"last_name"`
	BloodGroup  string   `json:"blood_group" binding:"required,bloodgroup"`
	Age         int      `json:"age" binding:"required,gte=18,lte=65"`
	Gender      string   `json:"gender" binding:"required,oneof=M F O"`
	PhoneNumber string   `json:"phone_number" binding:"required,max=15"`
	Address     string   `json:"address" binding:"required"`
	IsDonor     *bool    `json:"is_donor"`
	IsRecipient *bool    `json:"is_recipient"`
	LocationLat *float64 `json:"location_lat"`
	LocationLng *float64 `json:"location_long"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdateProfileRequest struct {
	FirstName    *string  `json:"first_name"`
	LastName     *string  `json:"last_name"`
	PhoneNumber  *string  `json:"phone_number"`
	Address      *string  `json:"address"`
	IsDonor      *bool    `json:"is_donor"`
	IsRecipient  *bool    `json:"is_recipient"`
	LocationLat  *float64 `json:"location_lat"`
	LocationLong *float64 `json:"location_long"`
}

type PersonFilters struct {
	BloodGroup  BloodGroup
	IsDonor     *bool
	HasLocation bool
}
