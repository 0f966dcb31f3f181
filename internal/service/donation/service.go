package donation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/projectred/donor-api/pkg/errors"
	"github.com/projectred/donor-api/pkg/geo"
	"github.com/projectred/donor-api/pkg/logger"
	"github.com/projectred/donor-api/pkg/metrics"

	"github.com/projectred/donor-api/internal/email"
	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository"
	"github.com/projectred/donor-api/internal/service/health"
	"github.com/projectred/donor-api/internal/service/hospital"
	"github.com/projectred/donor-api/internal/service/notification"
)

// Service drives the donation state machine: pending on the donor's
// offer, scheduled on the patient's accept (with hospital assignment and
// chat room), completed at the hospital. All transitions are
// compare-and-set at the repository so concurrent actors cannot double
// apply one.
type Service struct {
	donations  repository.DonationRepository
	requests   repository.BloodRequestRepository
	persons    repository.PersonRepository
	bloodTests repository.BloodTestRepository
	chatRooms  repository.ChatRoomRepository
	hospitals  *hospital.Service
	health     *health.Service
	notifier   *notification.Service
	emailer    email.Service
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

func NewService(
	donations repository.DonationRepository,
	requests repository.BloodRequestRepository,
	persons repository.PersonRepository,
	bloodTests repository.BloodTestRepository,
	chatRooms repository.ChatRoomRepository,
	hospitals *hospital.Service,
	healthSvc *health.Service,
	notifier *notification.Service,
	emailer email.Service,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		donations:  donations,
		requests:   requests,
		persons:    persons,
		bloodTests: bloodTests,
		chatRooms:  chatRooms,
		hospitals:  hospitals,
		health:     healthSvc,
		notifier:   notifier,
		emailer:    emailer,
		metrics:    m,
		logger:     log,
	}
}

// Offer records a donor's commitment to a request as a pending donation
// and tells the patient. An optional current location updates the
// donor's stored coordinate.
func (s *Service) Offer(ctx context.Context, donorID uuid.UUID, req *model.CreateDonationRequest) (*model.Donation, error) {
	donor, err := s.persons.Get(ctx, donorID)
	if err != nil {
		return nil, err
	}
	if !donor.IsDonor {
		return nil, apperrors.Forbidden("account is not registered as a donor", nil)
	}

	request, err := s.requests.Get(ctx, req.BloodRequestID)
	if err != nil {
		return nil, err
	}
	if request.PatientID == donorID {
		return nil, apperrors.BadRequest("cannot donate to your own request", nil)
	}
	if !request.Open() {
		return nil, apperrors.Conflict("blood request is no longer open", nil)
	}

	existing, err := s.donations.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}
	for _, d := range existing {
		if d.BloodRequestID == request.ID &&
			(d.Status == model.DonationStatusPending || d.Status == model.DonationStatusScheduled) {
			return nil, apperrors.Conflict("you already offered to donate for this request", nil)
		}
	}

	if req.LocationLat != nil && req.LocationLong != nil {
		donor.SetCoordinate(geo.Coordinate{Lat: *req.LocationLat, Long: *req.LocationLong})
		if err := s.persons.Update(ctx, donor); err != nil {
			return nil, fmt.Errorf("failed to update donor location: %w", err)
		}
	}

	donation := &model.Donation{
		DonorID:        donorID,
		BloodRequestID: request.ID,
		Status:         model.DonationStatusPending,
	}
	if err := s.donations.Create(ctx, donation); err != nil {
		return nil, err
	}

	if request.Status == model.BloodRequestStatusPending {
		request.Status = model.BloodRequestStatusDonating
		if err := s.requests.Update(ctx, request); err != nil {
			return nil, err
		}
	}

	s.emit(ctx, request.PatientID, model.NotificationBloodRequest,
		"New donation offer",
		fmt.Sprintf("%s offered to donate %s blood for your request.", donor.FullName(), donor.BloodGroup),
		&donation.ID)

	return donation, nil
}

// Accept is the donor confirming their pending commitment with live
// coordinates: pick a hospital, move the donation to scheduled, open the
// chat room, notify both sides. The scheduled transition is a
// compare-and-set; the loser of a double accept gets a conflict.
func (s *Service) Accept(ctx context.Context, donorID, donationID uuid.UUID, req *model.AcceptDonationRequest) (*model.AcceptResult, error) {
	donation, err := s.donations.Get(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if donation.DonorID != donorID {
		return nil, apperrors.Forbidden("not your donation", nil)
	}
	if donation.Status != model.DonationStatusPending {
		return nil, apperrors.Conflict("donation is no longer pending", nil)
	}
	if req.DonorLat == nil || req.DonorLong == nil {
		return nil, apperrors.BadRequest("live coordinates are required", nil)
	}

	request, err := s.requests.Get(ctx, donation.BloodRequestID)
	if err != nil {
		return nil, err
	}

	donorCoord := geo.Coordinate{Lat: *req.DonorLat, Long: *req.DonorLong}
	donor, err := s.persons.Get(ctx, donorID)
	if err != nil {
		return nil, err
	}
	donor.SetCoordinate(donorCoord)
	if err := s.persons.Update(ctx, donor); err != nil {
		return nil, fmt.Errorf("failed to update donor location: %w", err)
	}

	// Hospital selection happens before the transition; a selection
	// failure leaves the assignment unset instead of blocking the accept.
	var hospitalID *uuid.UUID
	var selected *model.Hospital
	aiRecommended := false
	sel, err := s.hospitals.Select(ctx, donorCoord, request.Coordinate())
	if err != nil {
		if s.logger != nil {
			s.logger.Error(err, "hospital selection failed", "donation_id", donationID)
		}
	} else if sel.Hospital != nil {
		selected = sel.Hospital
		hospitalID = &sel.Hospital.ID
		aiRecommended = sel.AIRecommended
	}

	ok, err := s.donations.MarkScheduled(ctx, donationID, hospitalID, aiRecommended)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Conflict("donation was already accepted or cancelled", nil)
	}
	s.countTransition("pending_scheduled")

	room, _, err := s.chatRooms.GetOrCreate(ctx, &model.ChatRoom{
		DonorID:    donorID,
		PatientID:  request.PatientID,
		DonationID: donationID,
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, request.PatientID, model.NotificationDonationAccepted,
		"Donation accepted",
		fmt.Sprintf("%s accepted your blood request. Open the chat to coordinate.", donor.FullName()),
		&donationID)
	s.emit(ctx, donorID, model.NotificationDonationAccepted,
		"Chat room ready",
		"A chat room was opened so you can coordinate the donation.",
		&donationID)
	if selected != nil {
		s.emit(ctx, donorID, model.NotificationHospitalAssigned,
			"Hospital assigned",
			fmt.Sprintf("%s (%s) was assigned for the donation.", selected.Name, selected.Address),
			&donationID)
	}

	donation, err = s.donations.Get(ctx, donationID)
	if err != nil {
		return nil, err
	}
	return &model.AcceptResult{
		Donation:   donation,
		Hospital:   selected,
		ChatRoomID: room.ID,
	}, nil
}

// Complete marks a scheduled donation done at the hospital. When the
// completed count reaches the requested units the request flips to
// completed exactly at the crossing.
func (s *Service) Complete(ctx context.Context, hospitalID, donationID uuid.UUID) (*model.Donation, error) {
	donation, err := s.donations.Get(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if donation.HospitalID == nil || *donation.HospitalID != hospitalID {
		return nil, apperrors.Forbidden("donation is not assigned to this hospital", nil)
	}

	ok, err := s.donations.MarkCompleted(ctx, donationID, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Conflict("donation is not scheduled", nil)
	}

	if err := s.finalize(ctx, donation); err != nil {
		return nil, err
	}
	return s.donations.Get(ctx, donationID)
}

// finalize runs the side effects of the completed transition: close the
// chat room, re-evaluate the owning request against its unit threshold,
// tell both parties. Called exactly once per completion, right after the
// compare-and-set succeeded.
func (s *Service) finalize(ctx context.Context, donation *model.Donation) error {
	s.countTransition("scheduled_completed")

	if err := s.chatRooms.Deactivate(ctx, donation.ID); err != nil && s.logger != nil {
		s.logger.Error(err, "failed to deactivate chat room", "donation_id", donation.ID)
	}

	request, err := s.requests.Get(ctx, donation.BloodRequestID)
	if err != nil {
		return err
	}
	completed, err := s.donations.CountCompletedForRequest(ctx, request.ID)
	if err != nil {
		return err
	}
	if request.Open() && completed >= request.UnitsRequired {
		request.Status = model.BloodRequestStatusCompleted
		if err := s.requests.Update(ctx, request); err != nil {
			return err
		}
		s.emit(ctx, request.PatientID, model.NotificationDonationCompleted,
			"Blood request fulfilled",
			fmt.Sprintf("All %d unit(s) for your blood request have been donated.", request.UnitsRequired),
			&request.ID)
		s.confirmLifeSaved(ctx, donation)
	}

	s.emit(ctx, donation.DonorID, model.NotificationDonationCompleted,
		"Donation completed",
		"Thank you! Your donation was completed at the hospital.",
		&donation.ID)
	s.thankDonor(ctx, donation.DonorID)
	return nil
}

// thankDonor mails the donor a thank-you note after completion, when a
// mailer is configured.
func (s *Service) thankDonor(ctx context.Context, donorID uuid.UUID) {
	if s.emailer == nil {
		return
	}
	donor, err := s.persons.Get(ctx, donorID)
	if err != nil {
		if s.logger != nil {
			s.logger.Error(err, "failed to load donor for thank-you email", "donor_id", donorID)
		}
		return
	}
	if err := s.emailer.SendDonationThanks(ctx, donor.Email, donor.FullName()); err != nil && s.logger != nil {
		s.logger.Error(err, "failed to send thank-you email", "to", donor.Email)
	}
}

// Cancel withdraws a pending or scheduled donation. Donors cancel their
// own; a request still in donating reopens so other donors see it.
func (s *Service) Cancel(ctx context.Context, donorID, donationID uuid.UUID) (*model.Donation, error) {
	donation, err := s.donations.Get(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if donation.DonorID != donorID {
		return nil, apperrors.Forbidden("not your donation", nil)
	}

	ok, err := s.donations.MarkCancelled(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Conflict("donation can no longer be cancelled", nil)
	}
	s.countTransition("cancelled")

	if err := s.chatRooms.Deactivate(ctx, donationID); err != nil && s.logger != nil {
		s.logger.Error(err, "failed to deactivate chat room", "donation_id", donationID)
	}

	request, err := s.requests.Get(ctx, donation.BloodRequestID)
	if err != nil {
		return nil, err
	}
	if request.Status == model.BloodRequestStatusDonating {
		request.Status = model.BloodRequestStatusPending
		if err := s.requests.Update(ctx, request); err != nil {
			return nil, err
		}
	}

	s.emit(ctx, request.PatientID, model.NotificationBloodRequest,
		"Donation cancelled",
		"A donor withdrew their offer for your blood request.",
		&donationID)

	return s.donations.Get(ctx, donationID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	return s.donations.Get(ctx, id)
}

func (s *Service) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]*model.Donation, error) {
	return s.donations.ListByDonor(ctx, donorID)
}

// ListForHospital is the hospital dashboard: donations assigned to it.
func (s *Service) ListForHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.Donation, error) {
	return s.donations.ListByHospital(ctx, hospitalID)
}

func (s *Service) emit(ctx context.Context, userID uuid.UUID, typ model.NotificationType, title, message string, relatedID *uuid.UUID) {
	if err := s.notifier.Emit(ctx, userID, typ, title, message, relatedID); err != nil && s.logger != nil {
		s.logger.Error(err, "failed to emit notification", "user_id", userID)
	}
}

func (s *Service) countTransition(transition string) {
	if s.metrics != nil {
		s.metrics.DonationTransitions.WithLabelValues(transition).Inc()
	}
}
