package donation

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectred/donor-api/config"
	apperrors "github.com/projectred/donor-api/pkg/errors"
	"github.com/projectred/donor-api/pkg/geo"

	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository/memory"
	"github.com/projectred/donor-api/internal/service/health"
	"github.com/projectred/donor-api/internal/service/hospital"
	"github.com/projectred/donor-api/internal/service/notification"
)

var matching = config.MatchingConfig{
	FanoutRadiusKm:    50,
	BrowseRadiusKm:    20,
	BestDonorRadiusKm: 100,
}

type fixture struct {
	store    *memory.Store
	svc      *Service
	notifier *notification.Service
}

func newFixture() *fixture {
	store := memory.NewStore()
	notifier := notification.NewService(store.Notifications(), nil, nil, nil)
	hospitals := hospital.NewService(store.Hospitals(), nil, matching, nil, nil)
	healthSvc := health.NewService(nil, nil, nil)
	svc := NewService(
		store.Donations(), store.BloodRequests(), store.Persons(),
		store.BloodTests(), store.ChatRooms(),
		hospitals, healthSvc, notifier, nil, nil, nil,
	)
	return &fixture{store: store, svc: svc, notifier: notifier}
}

func (f *fixture) person(t *testing.T, email string, isDonor bool, lat, long float64) *model.Person {
	t.Helper()
	p := &model.Person{
		Email:      email,
		FirstName:  email,
		BloodGroup: model.BloodGroupAPos,
		Age:        30,
		Gender:     model.GenderMale,
		IsDonor:    isDonor,
	}
	p.SetCoordinate(geo.Coordinate{Lat: lat, Long: long})
	require.NoError(t, f.store.Persons().Create(context.Background(), p))
	return p
}

func (f *fixture) request(t *testing.T, patientID uuid.UUID, units int) *model.BloodRequest {
	t.Helper()
	req := &model.BloodRequest{
		PatientID:     patientID,
		BloodGroup:    model.BloodGroupAPos,
		UnitsRequired: units,
		Urgency:       "high",
		LocationLat:   40.6782,
		LocationLong:  -73.9442,
		Status:        model.BloodRequestStatusPending,
	}
	require.NoError(t, f.store.BloodRequests().Create(context.Background(), req))
	return req
}

func (f *fixture) hospital(t *testing.T, name string, lat, long float64) *model.Hospital {
	t.Helper()
	h := &model.Hospital{Name: name, Address: name + " St", LocationLat: lat, LocationLong: long}
	require.NoError(t, f.store.Hospitals().Create(context.Background(), h))
	return h
}

var acceptReq = func() *model.AcceptDonationRequest {
	lat, long := 40.7831, -73.9712
	return &model.AcceptDonationRequest{DonorLat: &lat, DonorLong: &long}
}

func TestOfferAndAccept(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	donor := f.person(t, "donor@example.com", true, 40.7831, -73.9712)
	patient := f.person(t, "patient@example.com", false, 40.6782, -73.9442)
	request := f.request(t, patient.ID, 1)
	h := f.hospital(t, "Brooklyn Methodist", 40.6694, -73.9422)

	donation, err := f.svc.Offer(ctx, donor.ID, &model.CreateDonationRequest{BloodRequestID: request.ID})
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusPending, donation.Status)
	assert.Nil(t, donation.HospitalID)

	// Patient heard about the offer, request moved to donating right away.
	ns, err := f.notifier.ListForUser(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	got, err := f.store.BloodRequests().Get(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BloodRequestStatusDonating, got.Status)

	result, err := f.svc.Accept(ctx, donor.ID, donation.ID, acceptReq())
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusScheduled, result.Donation.Status)
	require.NotNil(t, result.Hospital)
	assert.Equal(t, h.ID, result.Hospital.ID)
	assert.False(t, result.Donation.AIRecommendedHospital)
	assert.NotEqual(t, uuid.Nil, result.ChatRoomID)

	// Patient was told the request was accepted.
	ns, err = f.notifier.ListForUser(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, ns, 2)

	// Donor got the chat room plus the hospital assignment.
	ns, err = f.notifier.ListForUser(ctx, donor.ID)
	require.NoError(t, err)
	types := map[model.NotificationType]int{}
	for _, n := range ns {
		types[n.Type]++
	}
	assert.Equal(t, 1, types[model.NotificationDonationAccepted])
	assert.Equal(t, 1, types[model.NotificationHospitalAssigned])
}

func TestOffer_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	donor := f.person(t, "donor@example.com", true, 40.78, -73.97)
	nonDonor := f.person(t, "nondonor@example.com", false, 40.78, -73.97)
	patient := f.person(t, "patient@example.com", false, 40.67, -73.94)
	request := f.request(t, patient.ID, 1)

	_, err := f.svc.Offer(ctx, nonDonor.ID, &model.CreateDonationRequest{BloodRequestID: request.ID})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	_, err = f.svc.Offer(ctx, patient.ID, &model.CreateDonationRequest{BloodRequestID: request.ID})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))

	_, err = f.svc.Offer(ctx, donor.ID, &model.CreateDonationRequest{BloodRequestID: request.ID})
	require.NoError(t, err)

	// Duplicate active offer for the same request.
	_, err = f.svc.Offer(ctx, donor.ID, &model.CreateDonationRequest{BloodRequestID: request.ID})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestAccept_NoHospitalsProceedsUnassigned(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	donor := f.person(t, "donor@example.com", true, 40.78, -73.97)
	patient := f.person(t, "patient@example.com", false, 40.67, -73.94)
	request := f.request(t, patient.ID, 1)

	donation, err := f.svc.Offer(ctx, donor.ID, &model.CreateDonationRequest{BloodRequestID: request.ID})
	require.NoError(t, err)

	result, err := f.svc.Accept(ctx, donor.ID, donation.ID, acceptReq())
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusScheduled, result.Donation.Status)
	assert.Nil(t, result.Donation.HospitalID)
	assert.Nil(t, result.Hospital)
}

func TestAccept_DoubleAcceptOneWins(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	donor := f.person(t, "donor@example.com", true, 40.78, -73.97)
	patient := f.person(t, "patient@example.com", false, 40.67, -73.94)
	request := f.request(t, patient.ID, 1)

	donation, err := f.svc.Offer(ctx, donor.ID, &model.CreateDonationRequest{BloodRequestID: request.ID})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Accept(ctx, donor.ID, donation.ID, acceptReq())
		}(i)
	}
	wg.Wait()

	succeeded, conflicted := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperrors.IsCode(err, apperrors.ErrConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	got, err := f.store.Donations().Get(ctx, donation.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusScheduled, got.Status)
}

func TestAccept_WrongCaller(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	donor := f.person(t, "donor@example.com", true, 40.78, -73.97)
	patient := f.person(t, "patient@example.com", false, 40.67, -73.94)
	request := f.request(t, patient.ID, 1)

	donation, err := f.svc.Offer(ctx, donor.ID, &model.CreateDonationRequest{BloodRequestID: request.ID})
	require.NoError(t, err)

	// Only the committing donor can confirm, not the patient.
	_, err = f.svc.Accept(ctx, patient.ID, donation.ID, acceptReq())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestAccept_MissingCoordinates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	donor := f.person(t, "donor@example.com", true, 40.78, -73.97)
	patient := f.person(t, "patient@example.com", false, 40.67, -73.94)
	request := f.request(t, patient.ID, 1)

	donation, err := f.svc.Offer(ctx, donor.ID, &model.CreateDonationRequest{BloodRequestID: request.ID})
	require.NoError(t, err)

	_, err = f.svc.Accept(ctx, donor.ID, donation.ID, &model.AcceptDonationRequest{})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestComplete_UnitsThresholdFlipsRequest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	patient := f.person(t, "patient@example.com", false, 40.67, -73.94)
	request := f.request(t, patient.ID, 2)
	h := f.hospital(t, "Brooklyn Methodist", 40.6694, -73.9422)

	complete := func(email string) {
		donor := f.person(t, email, true, 40.78, -73.97)
		donation, err := f.svc.Offer(ctx, donor.ID, &model.CreateDonationRequest{BloodRequestID: request.ID})
		require.NoError(t, err)
		_, err = f.svc.Accept(ctx, donor.ID, donation.ID, acceptReq())
		require.NoError(t, err)
		_, err = f.svc.Complete(ctx, h.ID, donation.ID)
		require.NoError(t, err)
	}

	complete("donor1@example.com")
	got, err := f.store.BloodRequests().Get(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BloodRequestStatusDonating, got.Status, "one of two units must not complete the request")

	complete("donor2@example.com")
	got, err = f.store.BloodRequests().Get(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BloodRequestStatusCompleted, got.Status)
}

func TestComplete_SetsDonationDateOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	donor := f.person(t, "donor@example.com", true, 40.78, -73.97)
	patient := f.person(t, "patient@example.com", false, 40.67, -73.94)
	request := f.request(t, patient.ID, 1)
	h := f.hospital(t, "Brooklyn Methodist", 40.6694, -73.9422)

	donation, err := f.svc.Offer(ctx, donor.ID, &model.CreateDonationRequest{BloodRequestID: request.ID})
	require.NoError(t, err)
	_, err = f.svc.Accept(ctx, donor.ID, donation.ID, acceptReq())
	require.NoError(t, err)

	completed, err := f.svc.Complete(ctx, h.ID, donation.ID)
	require.NoError(t, err)
	require.NotNil(t, completed.DonationDate)

	// Re-completing conflicts and the date does not move.
	_, err = f.svc.Complete(ctx, h.ID, donation.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))

	again, err := f.store.Donations().Get(ctx, donation.ID)
	require.NoError(t, err)
	assert.Equal(t, completed.DonationDate.UnixNano(), again.DonationDate.UnixNano())
}

func TestComplete_WrongHospital(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	donor := f.person(t, "donor@example.com", true, 40.78, -73.97)
	patient := f.person(t, "patient@example.com", false, 40.67, -73.94)
	request := f.request(t, patient.ID, 1)
	f.hospital(t, "Brooklyn Methodist", 40.6694, -73.9422)
	other := f.hospital(t, "Queens Memorial", 40.7282, -73.7949)

	donation, err := f.svc.Offer(ctx, donor.ID, &model.CreateDonationRequest{BloodRequestID: request.ID})
	require.NoError(t, err)
	result, err := f.svc.Accept(ctx, donor.ID, donation.ID, acceptReq())
	require.NoError(t, err)
	require.NotEqual(t, other.ID, *result.Donation.HospitalID)

	_, err = f.svc.Complete(ctx, other.ID, donation.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestCancel_ReopensRequest(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	donor := f.person(t, "donor@example.com", true, 40.78, -73.97)
	patient := f.person(t, "patient@example.com", false, 40.67, -73.94)
	request := f.request(t, patient.ID, 1)

	donation, err := f.svc.Offer(ctx, donor.ID, &model.CreateDonationRequest{BloodRequestID: request.ID})
	require.NoError(t, err)
	_, err = f.svc.Accept(ctx, donor.ID, donation.ID, acceptReq())
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, donor.ID, donation.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusCancelled, cancelled.Status)

	got, err := f.store.BloodRequests().Get(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BloodRequestStatusPending, got.Status)

	// A cancelled donation cannot be accepted.
	_, err = f.svc.Accept(ctx, donor.ID, donation.ID, acceptReq())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}
