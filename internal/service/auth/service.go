package auth

import (
	"context"

	"github.com/projectred/donor-api/pkg/auth"
	apperrors "github.com/projectred/donor-api/pkg/errors"
	"github.com/projectred/donor-api/pkg/geo"
	"github.com/projectred/donor-api/pkg/logger"
	"github.com/projectred/donor-api/pkg/security"

	"github.com/projectred/donor-api/internal/email"
	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository"
)

// Service handles registration and login for both principal kinds. A
// person logs in as a donor/recipient; hospital staff log in for their
// hospital. The issued token carries the principal kind so the
// middleware can route authorization.
type Service struct {
	persons   repository.PersonRepository
	hospitals repository.HospitalRepository
	tokens    *auth.TokenService
	emailer   email.Service
	logger    *logger.Logger
}

// NewService creates the service. emailer may be nil; welcome mail is
// best effort anyway.
func NewService(persons repository.PersonRepository, hospitals repository.HospitalRepository, tokens *auth.TokenService, emailer email.Service, log *logger.Logger) *Service {
	return &Service{
		persons:   persons,
		hospitals: hospitals,
		tokens:    tokens,
		emailer:   emailer,
		logger:    log,
	}
}

// RegisterPerson creates a person account and returns it with a token.
// is_donor defaults to true and is_recipient to false, matching the
// primary sign-up audience.
func (s *Service) RegisterPerson(ctx context.Context, req *model.RegisterPersonRequest) (*model.Person, string, error) {
	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}

	person := &model.Person{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		BloodGroup:   model.BloodGroup(req.BloodGroup),
		Age:          req.Age,
		Gender:       model.Gender(req.Gender),
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		IsDonor:      true,
	}
	if req.IsDonor != nil {
		person.IsDonor = *req.IsDonor
	}
	if req.IsRecipient != nil {
		person.IsRecipient = *req.IsRecipient
	}
	if req.LocationLat != nil && req.LocationLng != nil {
		person.SetCoordinate(geo.Coordinate{Lat: *req.LocationLat, Long: *req.LocationLng})
	}

	if err := s.persons.Create(ctx, person); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(person.ID, auth.PrincipalDonor, person.Email)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}

	s.sendWelcome(ctx, person.Email, person.FullName())
	return person, token, nil
}

// LoginPerson verifies credentials and issues a donor-kind token.
func (s *Service) LoginPerson(ctx context.Context, req *model.LoginRequest) (*model.Person, string, error) {
	person, err := s.persons.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized(nil)
		}
		return nil, "", err
	}
	if !security.CheckPassword(req.Password, person.PasswordHash) {
		return nil, "", apperrors.Unauthorized(nil)
	}

	token, err := s.tokens.Generate(person.ID, auth.PrincipalDonor, person.Email)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	return person, token, nil
}

// RegisterHospital creates the hospital record together with its first
// staff login and issues a hospital-kind token bound to the staff
// account.
func (s *Service) RegisterHospital(ctx context.Context, req *model.RegisterHospitalRequest) (*model.Hospital, string, error) {
	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}

	hospital := &model.Hospital{
		Name:         req.Name,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
		LocationLat:  req.LocationLat,
		LocationLong: req.LocationLong,
	}
	if err := s.hospitals.Create(ctx, hospital); err != nil {
		return nil, "", err
	}

	staff := &model.HospitalStaff{
		HospitalID:   hospital.ID,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.hospitals.CreateStaff(ctx, staff); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(staff.ID, auth.PrincipalHospital, staff.Email)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}

	s.sendWelcome(ctx, staff.Email, hospital.Name)
	return hospital, token, nil
}

// LoginHospital verifies staff credentials and issues a hospital-kind
// token.
func (s *Service) LoginHospital(ctx context.Context, req *model.LoginRequest) (*model.HospitalStaff, string, error) {
	staff, err := s.hospitals.GetStaffByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized(nil)
		}
		return nil, "", err
	}
	if !security.CheckPassword(req.Password, staff.PasswordHash) {
		return nil, "", apperrors.Unauthorized(nil)
	}

	token, err := s.tokens.Generate(staff.ID, auth.PrincipalHospital, staff.Email)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	return staff, token, nil
}

// RequestPasswordReset mails a short-lived reset token to the account's
// address. The response is identical whether or not the email is known,
// so the endpoint cannot be used to probe for accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	person, err := s.persons.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := s.tokens.GenerateReset(person.ID, auth.PrincipalDonor, person.Email)
	if err != nil {
		return apperrors.Internal(err)
	}

	if s.emailer == nil {
		if s.logger != nil {
			s.logger.Warn("password reset requested but no mailer is configured", "email", email)
		}
		return nil
	}

	body := "Hi " + person.FullName() + ",\n\nUse the token below to reset your password. It expires in one hour.\n\n" + token + "\n"
	if err := s.emailer.SendCustom(ctx, person.Email, "Password reset", body); err != nil {
		if s.logger != nil {
			s.logger.Error(err, "failed to send password reset email", "to", person.Email)
		}
	}
	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.ValidateReset(token)
	if err != nil {
		return apperrors.Unauthorized(err)
	}
	if claims.Kind != auth.PrincipalDonor {
		return apperrors.Unauthorized(nil)
	}

	person, err := s.persons.Get(ctx, claims.SubjectID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return apperrors.Unauthorized(nil)
		}
		return err
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return apperrors.Internal(err)
	}
	person.PasswordHash = hash
	return s.persons.Update(ctx, person)
}

// Principal resolves token claims into the request principal.
func (s *Service) Principal(claims *auth.Claims) *model.Principal {
	return &model.Principal{
		Kind:  claims.Kind,
		ID:    claims.SubjectID,
		Email: claims.Email,
	}
}

func (s *Service) sendWelcome(ctx context.Context, to, name string) {
	if s.emailer == nil {
		return
	}
	if err := s.emailer.SendWelcome(ctx, to, name); err != nil && s.logger != nil {
		s.logger.Error(err, "failed to send welcome email", "to", to)
	}
}
