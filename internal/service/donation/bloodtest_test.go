package donation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/model"
)

func f64(v float64) *float64 { return &v }

func boolp(v bool) *bool { return &v }

// completedDonation runs a donation through offer, accept, complete and
// returns the pieces the blood test flow needs.
func completedDonation(t *testing.T, f *fixture) (*model.Person, *model.Donation, *model.Hospital) {
	t.Helper()
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
	return donor, completed, h
}

func TestSubmitBloodTest_AbnormalValuesAlertDonor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	donor, donation, h := completedDonation(t, f)

	test, err := f.svc.SubmitBloodTest(ctx, h.ID, donation.ID, &model.SubmitBloodTestRequest{
		SugarLevel: f64(250),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, test.RiskSummary)
	assert.Contains(t, test.RiskSummary, "sugar level")
	assert.Equal(t, 75, test.RiskConfidence)

	ns, err := f.notifier.ListForUser(ctx, donor.ID)
	require.NoError(t, err)
	alerts := 0
	for _, n := range ns {
		if n.Type == model.NotificationHealthAlert {
			alerts++
			assert.Contains(t, n.Title, "alert")
		}
	}
	assert.Equal(t, 1, alerts)
}

func TestSubmitBloodTest_LifeSavedOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	donor, donation, h := completedDonation(t, f)

	_, err := f.svc.SubmitBloodTest(ctx, h.ID, donation.ID, &model.SubmitBloodTestRequest{
		LifeSaved: boolp(true),
	})
	require.NoError(t, err)

	// Updating the test with life_saved still true must not duplicate
	// the notification.
	_, err = f.svc.UpdateBloodTest(ctx, h.ID, donation.ID, &model.SubmitBloodTestRequest{
		LifeSaved: boolp(true),
	})
	require.NoError(t, err)

	ns, err := f.notifier.ListForUser(ctx, donor.ID)
	require.NoError(t, err)
	lifeSaved := 0
	for _, n := range ns {
		if n.Type == model.NotificationLifeSaved {
			lifeSaved++
		}
	}
	assert.Equal(t, 1, lifeSaved)
}

func TestSubmitBloodTest_CompletesScheduledDonation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	donor := f.person(t, "donor@example.com", true, 40.78, -73.97)
	patient := f.person(t, "patient@example.com", false, 40.67, -73.94)
	request := f.request(t, patient.ID, 1)
	h := f.hospital(t, "Brooklyn Methodist", 40.6694, -73.9422)

	donation, err := f.svc.Offer(ctx, donor.ID, &model.CreateDonationRequest{BloodRequestID: request.ID})
	require.NoError(t, err)

	// A pending donation has no hospital assignment yet.
	_, err = f.svc.SubmitBloodTest(ctx, h.ID, donation.ID, &model.SubmitBloodTestRequest{SugarLevel: f64(90)})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	_, err = f.svc.Accept(ctx, donor.ID, donation.ID, acceptReq())
	require.NoError(t, err)

	_, err = f.svc.SubmitBloodTest(ctx, h.ID, donation.ID, &model.SubmitBloodTestRequest{SugarLevel: f64(90)})
	require.NoError(t, err)

	got, err := f.store.Donations().Get(ctx, donation.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusCompleted, got.Status)
	require.NotNil(t, got.DonationDate)

	// The single required unit came in, so the request closed too.
	gotReq, err := f.store.BloodRequests().Get(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BloodRequestStatusCompleted, gotReq.Status)
}

func TestSubmitBloodTest_OnePerDonation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, donation, h := completedDonation(t, f)

	_, err := f.svc.SubmitBloodTest(ctx, h.ID, donation.ID, &model.SubmitBloodTestRequest{SugarLevel: f64(90)})
	require.NoError(t, err)

	_, err = f.svc.SubmitBloodTest(ctx, h.ID, donation.ID, &model.SubmitBloodTestRequest{SugarLevel: f64(92)})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestUpdateBloodTest_MergesValues(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, donation, h := completedDonation(t, f)

	_, err := f.svc.SubmitBloodTest(ctx, h.ID, donation.ID, &model.SubmitBloodTestRequest{
		SugarLevel: f64(90),
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateBloodTest(ctx, h.ID, donation.ID, &model.SubmitBloodTestRequest{
		Hemoglobin: f64(14.2),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.SugarLevel)
	assert.InDelta(t, 90, *updated.SugarLevel, 1e-9)
	require.NotNil(t, updated.Hemoglobin)
	assert.InDelta(t, 14.2, *updated.Hemoglobin, 1e-9)
}
