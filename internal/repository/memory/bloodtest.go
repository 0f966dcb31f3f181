package memory

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/model"
)

type bloodTestRepo struct {
	s *Store
}

func (r *bloodTestRepo) Create(ctx context.Context, test *model.BloodTest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.bloodTests {
		if t.DonationID == test.DonationID {
			return apperrors.Conflict("blood test already submitted", nil)
		}
	}
	stamp(&test.Base)
	r.s.bloodTests[test.ID] = *test
	return nil
}

func (r *bloodTestRepo) GetByDonation(ctx context.Context, donationID uuid.UUID) (*model.BloodTest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.bloodTests {
		if t.DonationID == donationID {
			cp := t
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("blood test", nil)
}

func (r *bloodTestRepo) Update(ctx context.Context, test *model.BloodTest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bloodTests[test.ID]; !ok {
		return apperrors.NotFound("blood test", nil)
	}
	r.s.bloodTests[test.ID] = *test
	return nil
}
