package donation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/model"
)

// SubmitBloodTest records the lab results for a donation, completing it
// when still scheduled, runs the health assessment when lab values are
// present, and handles the hospital's life-saved confirmation. One test
// per donation.
func (s *Service) SubmitBloodTest(ctx context.Context, hospitalID, donationID uuid.UUID, req *model.SubmitBloodTestRequest) (*model.BloodTest, error) {
	donation, err := s.donations.Get(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if donation.HospitalID == nil || *donation.HospitalID != hospitalID {
		return nil, apperrors.Forbidden("donation is not assigned to this hospital", nil)
	}

	if _, err := s.bloodTests.GetByDonation(ctx, donationID); err == nil {
		return nil, apperrors.Conflict("blood test already submitted for this donation", nil)
	} else if !apperrors.IsCode(err, apperrors.ErrNotFound) {
		return nil, err
	}

	switch donation.Status {
	case model.DonationStatusScheduled:
		ok, err := s.donations.MarkCompleted(ctx, donationID, time.Now())
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.Conflict("donation is no longer scheduled", nil)
		}
		if err := s.finalize(ctx, donation); err != nil {
			return nil, err
		}
	case model.DonationStatusCompleted:
		// Already marked done explicitly; the test just gets attached.
	default:
		return nil, apperrors.Conflict("donation is not ready for a blood test", nil)
	}

	test := &model.BloodTest{
		DonationID:         donationID,
		TestedByHospitalID: hospitalID,
		SugarLevel:         req.SugarLevel,
		UricAcidLevel:      req.UricAcidLevel,
		WBCCount:           req.WBCCount,
		RBCCount:           req.RBCCount,
		Hemoglobin:         req.Hemoglobin,
		PlateletCount:      req.PlateletCount,
	}
	if req.LifeSaved != nil {
		test.LifeSaved = *req.LifeSaved
	}

	if req.HasLabValues() {
		if err := s.assess(ctx, donation, test); err != nil {
			return nil, err
		}
	}

	if err := s.bloodTests.Create(ctx, test); err != nil {
		return nil, err
	}

	if err := s.chatRooms.Deactivate(ctx, donationID); err != nil && s.logger != nil {
		s.logger.Error(err, "failed to deactivate chat room", "donation_id", donationID)
	}

	if test.LifeSaved {
		s.confirmLifeSaved(ctx, donation)
	}
	return test, nil
}

// UpdateBloodTest amends an existing test. Lab value changes re-run the
// assessment; a late life-saved confirmation still notifies at most once.
func (s *Service) UpdateBloodTest(ctx context.Context, hospitalID, donationID uuid.UUID, req *model.SubmitBloodTestRequest) (*model.BloodTest, error) {
	donation, err := s.donations.Get(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if donation.HospitalID == nil || *donation.HospitalID != hospitalID {
		return nil, apperrors.Forbidden("donation is not assigned to this hospital", nil)
	}

	test, err := s.bloodTests.GetByDonation(ctx, donationID)
	if err != nil {
		return nil, err
	}

	if req.SugarLevel != nil {
		test.SugarLevel = req.SugarLevel
	}
	if req.UricAcidLevel != nil {
		test.UricAcidLevel = req.UricAcidLevel
	}
	if req.WBCCount != nil {
		test.WBCCount = req.WBCCount
	}
	if req.RBCCount != nil {
		test.RBCCount = req.RBCCount
	}
	if req.Hemoglobin != nil {
		test.Hemoglobin = req.Hemoglobin
	}
	if req.PlateletCount != nil {
		test.PlateletCount = req.PlateletCount
	}
	if req.LifeSaved != nil {
		test.LifeSaved = *req.LifeSaved
	}

	if req.HasLabValues() {
		if err := s.assess(ctx, donation, test); err != nil {
			return nil, err
		}
	}

	if err := s.bloodTests.Update(ctx, test); err != nil {
		return nil, err
	}

	if test.LifeSaved {
		s.confirmLifeSaved(ctx, donation)
	}
	return test, nil
}

func (s *Service) GetBloodTest(ctx context.Context, donationID uuid.UUID) (*model.BloodTest, error) {
	return s.bloodTests.GetByDonation(ctx, donationID)
}

// assess runs the health advisor (or its fallback) over the donor's
// profile plus the test's lab values and stores the outcome on the test.
// The donor hears about it through a health alert.
func (s *Service) assess(ctx context.Context, donation *model.Donation, test *model.BloodTest) error {
	donor, err := s.persons.Get(ctx, donation.DonorID)
	if err != nil {
		return fmt.Errorf("failed to load donor for assessment: %w", err)
	}

	assessment := s.health.Assess(ctx, &model.HealthProfile{
		Name:          donor.FullName(),
		Age:           donor.Age,
		Gender:        donor.Gender,
		SugarLevel:    test.SugarLevel,
		UricAcidLevel: test.UricAcidLevel,
		WBCCount:      test.WBCCount,
		RBCCount:      test.RBCCount,
		Hemoglobin:    test.Hemoglobin,
		PlateletCount: test.PlateletCount,
	})

	test.RiskAssessment = assessment.FullText
	test.RiskSummary = assessment.Summary
	test.RiskConfidence = assessment.Confidence

	title := "Your blood test results"
	if assessment.HasAbnormalities {
		title = "Health alert from your blood test"
	}
	s.emit(ctx, donor.ID, model.NotificationHealthAlert, title, assessment.NotificationMessage, &donation.ID)
	return nil
}

func (s *Service) confirmLifeSaved(ctx context.Context, donation *model.Donation) {
	emitted, err := s.notifier.EmitLifeSaved(ctx, donation.DonorID, donation.ID)
	if err != nil && s.logger != nil {
		s.logger.Error(err, "failed to emit life-saved notification", "donation_id", donation.ID)
	}
	if emitted && s.logger != nil {
		s.logger.Info("life saved confirmed", "donation_id", donation.ID, "donor_id", donation.DonorID)
	}
}
