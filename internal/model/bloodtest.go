package model

import (
	"github.com/google/uuid"
)

// BloodTest is the lab result for one completed donation. Lab values are
// pointers because the hospital may submit them incrementally; LifeSaved
// is hospital-asserted and drives a one-time notification.
type BloodTest struct {
	Base
	DonationID          uuid.UUID `db:"donation_id" json:"donation_id"`
	TestedByHospitalID  uuid.UUID `db:"tested_by_hospital_id" json:"tested_by_hospital_id"`
	SugarLevel          *float64  `db:"sugar_level" json:"sugar_level,omitempty"`
	UricAcidLevel       *float64  `db:"uric_acid_level" json:"uric_acid_level,omitempty"`
	WBCCount            *float64  `db:"wbc_count" json:"wbc_count,omitempty"`
	RBCCount            *float64  `db:"rbc_count" json:"rbc_count,omitempty"`
	Hemoglobin          *float64  `db:"hemoglobin" json:"hemoglobin,omitempty"`
	PlateletCount       *float64  `db:"platelet_count" json:"platelet_count,omitempty"`
	LifeSaved           bool      `db:"life_saved" json:"life_saved"`
	RiskAssessment      string    `db:"risk_assessment" json:"risk_assessment,omitempty"`
	RiskSummary         string    `db:"risk_summary" json:"risk_summary,omitempty"`
	RiskConfidence      int       `db:"risk_confidence" json:"risk_confidence"`
}

type SubmitBloodTestRequest struct {
	SugarLevel    *float64 `json:"sugar_level"`
	UricAcidLevel *float64 `json:"uric_acid_level"`
	WBCCount      *float64 `json:"wbc_count"`
	RBCCount      *float64 `json:"rbc_count"`
	Hemoglobin    *float64 `json:"hemoglobin"`
	PlateletCount *float64 `json:"platelet_count"`
	LifeSaved     *bool    `json:"life_saved"`
}

// HasLabValues reports whether at least one lab value is present.
func (r *SubmitBloodTestRequest) HasLabValues() bool {
	return r.SugarLevel != nil || r.UricAcidLevel != nil || r.WBCCount != nil ||
		r.RBCCount != nil || r.Hemoglobin != nil || r.PlateletCount != nil
}
