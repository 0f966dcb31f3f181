package request

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/projectred/donor-api/config"
	apperrors "github.com/projectred/donor-api/pkg/errors"
	"github.com/projectred/donor-api/pkg/logger"

	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository"
	"github.com/projectred/donor-api/internal/service/donor"
	"github.com/projectred/donor-api/internal/service/notification"
)

// Service owns blood requests: creation with the donor notification
// fan-out, the patient's best-donor search, and cancellation.
type Service struct {
	repo     repository.BloodRequestRepository
	persons  repository.PersonRepository
	donors   *donor.Service
	notifier *notification.Service
	matching config.MatchingConfig
	logger   *logger.Logger
}

func NewService(repo repository.BloodRequestRepository, persons repository.PersonRepository, donors *donor.Service, notifier *notification.Service, matching config.MatchingConfig, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		persons:  persons,
		donors:   donors,
		notifier: notifier,
		matching: matching,
		logger:   log,
	}
}

// Create opens a request and notifies every matching donor within the
// fan-out radius. Notification failures are logged per donor and never
// fail the request itself.
func (s *Service) Create(ctx context.Context, patientID uuid.UUID, req *model.CreateBloodRequestRequest) (*model.BloodRequest, error) {
	patient, err := s.persons.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}

	group := model.BloodGroup(req.BloodGroup)
	if !group.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid blood group %q", req.BloodGroup), nil)
	}

	request := &model.BloodRequest{
		PatientID:     patientID,
		BloodGroup:    group,
		UnitsRequired: req.UnitsRequired,
		Urgency:       req.Urgency,
		Reason:        req.Reason,
		LocationLat:   req.LocationLat,
		LocationLong:  req.LocationLong,
		Status:        model.BloodRequestStatusPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.fanout(ctx, patient, request)
	return request, nil
}

func (s *Service) fanout(ctx context.Context, patient *model.Person, request *model.BloodRequest) {
	matches, err := s.donors.FindNearby(ctx, request.Coordinate(), request.BloodGroup, s.matching.FanoutRadiusKm, patient.ID)
	if err != nil {
		if s.logger != nil {
			s.logger.Error(err, "donor fan-out search failed", "request_id", request.ID)
		}
		return
	}

	title := fmt.Sprintf("%s blood needed nearby", request.BloodGroup)
	for _, m := range matches {
		msg := fmt.Sprintf("%s needs %d unit(s) of %s blood %.1f km from you. Urgency: %s.",
			patient.FullName(), request.UnitsRequired, request.BloodGroup, m.DistanceKm, request.Urgency)
		if err := s.notifier.Emit(ctx, m.Donor.ID, model.NotificationBloodRequest, title, msg, &request.ID); err != nil && s.logger != nil {
			s.logger.Error(err, "failed to notify donor", "donor_id", m.Donor.ID, "request_id", request.ID)
		}
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.BloodRequest, error) {
	return s.repo.Get(ctx, id)
}

// ListOpen returns requests a donor could still act on.
func (s *Service) ListOpen(ctx context.Context) ([]*model.BloodRequest, error) {
	requests, err := s.repo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	open := requests[:0]
	for _, r := range requests {
		if r.Open() {
			open = append(open, r)
		}
	}
	return open, nil
}

// ListForPerson returns requests the person created or donated to.
func (s *Service) ListForPerson(ctx context.Context, personID uuid.UUID) ([]*model.BloodRequest, error) {
	return s.repo.ListForPerson(ctx, personID)
}

// BestDonors ranks donors for the patient's request within the wide
// search radius. Only the request owner may ask.
func (s *Service) BestDonors(ctx context.Context, personID, requestID uuid.UUID) ([]*model.DonorMatch, error) {
	request, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.PatientID != personID {
		return nil, apperrors.Forbidden("not your blood request", nil)
	}
	return s.donors.FindNearby(ctx, request.Coordinate(), request.BloodGroup, s.matching.BestDonorRadiusKm, personID)
}

// Cancel closes an open request. Only the owner may cancel, and a
// request that already completed stays completed.
func (s *Service) Cancel(ctx context.Context, personID, requestID uuid.UUID) (*model.BloodRequest, error) {
	request, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.PatientID != personID {
		return nil, apperrors.Forbidden("not your blood request", nil)
	}
	if !request.Open() {
		return nil, apperrors.Conflict("blood request is no longer open", nil)
	}

	request.Status = model.BloodRequestStatusCancelled
	if err := s.repo.Update(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}
