// Package advisor wraps the external scoring service used for hospital
// selection and health-risk assessment. Callers treat any error as a
// signal to fall back to the deterministic path; advisor failures never
// surface to API clients.
package advisor

import (
	"context"

	"github.com/google/uuid"

	"github.com/projectred/donor-api/internal/model"
)

// HospitalAdvisor picks one hospital out of a ranked candidate list.
type HospitalAdvisor interface {
	RecommendHospital(ctx context.Context, candidates []model.HospitalCandidate) (uuid.UUID, error)
}

// HealthAdvisor turns a donor health profile into a structured assessment.
type HealthAdvisor interface {
	AssessHealth(ctx context.Context, profile *model.HealthProfile) (*model.Assessment, error)
}
