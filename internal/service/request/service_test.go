package request

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectred/donor-api/config"
	apperrors "github.com/projectred/donor-api/pkg/errors"
	"github.com/projectred/donor-api/pkg/geo"

	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository/memory"
	"github.com/projectred/donor-api/internal/service/donor"
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
	donors := donor.NewService(store.Persons(), store.BloodRequests(), matching, nil, nil)
	svc := NewService(store.BloodRequests(), store.Persons(), donors, notifier, matching, nil)
	return &fixture{store: store, svc: svc, notifier: notifier}
}

func (f *fixture) person(t *testing.T, email string, group model.BloodGroup, isDonor bool, lat, long float64) *model.Person {
	t.Helper()
	p := &model.Person{
		Email:      email,
		FirstName:  email,
		BloodGroup: group,
		Age:        30,
		Gender:     model.GenderMale,
		IsDonor:    isDonor,
	}
	p.SetCoordinate(geo.Coordinate{Lat: lat, Long: long})
	require.NoError(t, f.store.Persons().Create(context.Background(), p))
	return p
}

func TestCreate_FansOutToNearbyDonors(t *testing.T) {
	f := newFixture()

	patient := f.person(t, "patient@example.com", model.BloodGroupAPos, false, 40.7580, -73.9855)
	near := f.person(t, "near@example.com", model.BloodGroupAPos, true, 40.7680, -73.9820)
	f.person(t, "wronggroup@example.com", model.BloodGroupBNeg, true, 40.7680, -73.9820)
	f.person(t, "boston@example.com", model.BloodGroupAPos, true, 42.3601, -71.0589)

	created, err := f.svc.Create(context.Background(), patient.ID, &model.CreateBloodRequestRequest{
		BloodGroup:    "A+",
		UnitsRequired: 2,
		Urgency:       "high",
		LocationLat:   40.7580,
		LocationLong:  -73.9855,
	})
	require.NoError(t, err)
	assert.Equal(t, model.BloodRequestStatusPending, created.Status)

	// Only the nearby matching donor hears about it.
	got, err := f.notifier.ListForUser(context.Background(), near.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.NotificationBloodRequest, got[0].Type)
	require.NotNil(t, got[0].RelatedID)
	assert.Equal(t, created.ID, *got[0].RelatedID)

	for _, email := range []string{"patient@example.com"} {
		p, err := f.store.Persons().GetByEmail(context.Background(), email)
		require.NoError(t, err)
		ns, err := f.notifier.ListForUser(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Empty(t, ns)
	}
}

func TestCreate_RequesterNeverNotified(t *testing.T) {
	f := newFixture()

	// The patient is also a registered donor of the same group.
	patient := f.person(t, "both@example.com", model.BloodGroupOPos, true, 40.7580, -73.9855)

	_, err := f.svc.Create(context.Background(), patient.ID, &model.CreateBloodRequestRequest{
		BloodGroup:    "O+",
		UnitsRequired: 1,
		Urgency:       "medium",
		LocationLat:   40.7580,
		LocationLong:  -73.9855,
	})
	require.NoError(t, err)

	got, err := f.notifier.ListForUser(context.Background(), patient.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBestDonors(t *testing.T) {
	f := newFixture()

	patient := f.person(t, "patient@example.com", model.BloodGroupAPos, false, 40.7580, -73.9855)
	f.person(t, "nyc@example.com", model.BloodGroupAPos, true, 40.7680, -73.9820)
	f.person(t, "philly@example.com", model.BloodGroupAPos, true, 39.9526, -75.1652) // ~130 km

	created, err := f.svc.Create(context.Background(), patient.ID, &model.CreateBloodRequestRequest{
		BloodGroup:    "A+",
		UnitsRequired: 1,
		Urgency:       "high",
		LocationLat:   40.7580,
		LocationLong:  -73.9855,
	})
	require.NoError(t, err)

	best, err := f.svc.BestDonors(context.Background(), patient.ID, created.ID)
	require.NoError(t, err)
	require.Len(t, best, 1)
	assert.Equal(t, "nyc@example.com", best[0].Donor.Email)

	// Someone else's request is off limits.
	stranger := f.person(t, "stranger@example.com", model.BloodGroupAPos, false, 40.7, -74.0)
	_, err = f.svc.BestDonors(context.Background(), stranger.ID, created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}

func TestCancel(t *testing.T) {
	f := newFixture()

	patient := f.person(t, "patient@example.com", model.BloodGroupAPos, false, 40.7580, -73.9855)
	created, err := f.svc.Create(context.Background(), patient.ID, &model.CreateBloodRequestRequest{
		BloodGroup:    "A+",
		UnitsRequired: 1,
		Urgency:       "low",
		LocationLat:   40.7580,
		LocationLong:  -73.9855,
	})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(context.Background(), patient.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BloodRequestStatusCancelled, cancelled.Status)

	// A cancelled request cannot be cancelled again.
	_, err = f.svc.Cancel(context.Background(), patient.ID, created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestListOpen(t *testing.T) {
	f := newFixture()

	patient := f.person(t, "patient@example.com", model.BloodGroupAPos, false, 40.7580, -73.9855)

	open, err := f.svc.Create(context.Background(), patient.ID, &model.CreateBloodRequestRequest{
		BloodGroup: "A+", UnitsRequired: 1, Urgency: "high", LocationLat: 40.75, LocationLong: -73.98,
	})
	require.NoError(t, err)
	closed, err := f.svc.Create(context.Background(), patient.ID, &model.CreateBloodRequestRequest{
		BloodGroup: "A+", UnitsRequired: 1, Urgency: "high", LocationLat: 40.75, LocationLong: -73.98,
	})
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), patient.ID, closed.ID)
	require.NoError(t, err)

	got, err := f.svc.ListOpen(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, open.ID, got[0].ID)
}
