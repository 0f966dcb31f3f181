package model

import (
	"github.com/google/uuid"

	"github.com/projectred/donor-api/pkg/auth"
)

// Principal is the authenticated caller: either a person (donor/recipient)
// or a hospital staff account. The tagged union keeps session identity out
// of the data model.
type Principal struct {
	Kind  auth.PrincipalKind `json:"kind"`
	ID    uuid.UUID          `json:"id"`
	Email string             `json:"email"`
}

func (p Principal) IsPerson() bool   { return p.Kind == auth.PrincipalDonor }
func (p Principal) IsHospital() bool { return p.Kind == auth.PrincipalHospital }
