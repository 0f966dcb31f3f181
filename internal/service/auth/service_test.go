package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/projectred/donor-api/pkg/auth"
	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository/memory"
)

func newService() (*Service, *memory.Store) {
	store := memory.NewStore()
	tokens := pkgauth.NewTokenService("test-secret", time.Hour)
	return NewService(store.Persons(), store.Hospitals(), tokens, nil, nil), store
}

func registerReq() *model.RegisterPersonRequest {
	return &model.RegisterPersonRequest{
		Email:       "donor@example.com",
		Password:    "correct-horse",
		FirstName:   "Jordan",
		LastName:    "Li",
		BloodGroup:  "A+",
		Age:         30,
		Gender:      "M",
		PhoneNumber: "5551234567",
		Address:     "1 Main St",
	}
}

func TestRegisterAndLoginPerson(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	person, token, err := svc.RegisterPerson(ctx, registerReq())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, person.IsDonor, "is_donor defaults to true")
	assert.False(t, person.IsRecipient)
	assert.NotEqual(t, "correct-horse", person.PasswordHash)

	got, token, err := svc.LoginPerson(ctx, &model.LoginRequest{
		Email: "donor@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, person.ID, got.ID)
	assert.NotEmpty(t, token)
}

func TestLoginPerson_BadCredentials(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, _, err := svc.RegisterPerson(ctx, registerReq())
	require.NoError(t, err)

	_, _, err = svc.LoginPerson(ctx, &model.LoginRequest{Email: "donor@example.com", Password: "wrong"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))

	_, _, err = svc.LoginPerson(ctx, &model.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestRegisterPerson_DuplicateEmail(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, _, err := svc.RegisterPerson(ctx, registerReq())
	require.NoError(t, err)

	_, _, err = svc.RegisterPerson(ctx, registerReq())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestRegisterAndLoginHospital(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	hospital, token, err := svc.RegisterHospital(ctx, &model.RegisterHospitalRequest{
		Name:         "Brooklyn Methodist",
		Address:      "2 Court St",
		PhoneNumber:  "5559876543",
		LocationLat:  40.6694,
		LocationLong: -73.9422,
		Email:        "admin@bkmethodist.example",
		Password:     "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	staff, token, err := svc.LoginHospital(ctx, &model.LoginRequest{
		Email: "admin@bkmethodist.example", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, hospital.ID, staff.HospitalID)
	assert.NotEmpty(t, token)

	// Token resolves to a hospital principal bound to the staff account.
	tokens := pkgauth.NewTokenService("test-secret", time.Hour)
	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	principal := svc.Principal(claims)
	assert.True(t, principal.IsHospital())
	assert.Equal(t, staff.ID, principal.ID)

	_, err = store.Hospitals().GetStaff(ctx, staff.ID)
	require.NoError(t, err)
}

func TestResetPassword(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	person, _, err := svc.RegisterPerson(ctx, registerReq())
	require.NoError(t, err)

	// No mailer is configured, so no token leaves the service. An
	// unknown address still succeeds silently.
	require.NoError(t, svc.RequestPasswordReset(ctx, "donor@example.com"))
	require.NoError(t, svc.RequestPasswordReset(ctx, "nobody@example.com"))

	tokens := pkgauth.NewTokenService("test-secret", time.Hour)
	reset, err := tokens.GenerateReset(person.ID, pkgauth.PrincipalDonor, person.Email)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, reset, "new-password-123"))

	_, _, err = svc.LoginPerson(ctx, &model.LoginRequest{Email: "donor@example.com", Password: "correct-horse"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))

	got, _, err := svc.LoginPerson(ctx, &model.LoginRequest{Email: "donor@example.com", Password: "new-password-123"})
	require.NoError(t, err)
	assert.Equal(t, person.ID, got.ID)
}

func TestResetPassword_RejectsAccessToken(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, access, err := svc.RegisterPerson(ctx, registerReq())
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, access, "new-password-123")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestPrincipalKinds(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, personToken, err := svc.RegisterPerson(ctx, registerReq())
	require.NoError(t, err)

	tokens := pkgauth.NewTokenService("test-secret", time.Hour)
	claims, err := tokens.Validate(personToken)
	require.NoError(t, err)

	principal := svc.Principal(claims)
	assert.True(t, principal.IsPerson())
	assert.False(t, principal.IsHospital())
	assert.Equal(t, "donor@example.com", principal.Email)
}
