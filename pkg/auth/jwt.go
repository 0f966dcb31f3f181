package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PrincipalKind distinguishes the two session identities the API serves.
// A donor/recipient person and a hospital staff account are separate
// principal variants, never conflated with each other or with the
// persistence records they point at.
type PrincipalKind string

const (
	PrincipalDonor    PrincipalKind = "donor"
	PrincipalHospital PrincipalKind = "hospital"
)

// purposeReset marks short-lived password reset tokens so they can
// never double as session tokens.
const purposeReset = "password_reset"

const resetExpiry = time.Hour

// Claims are the JWT claims carried by access tokens.
type Claims struct {
	jwt.RegisteredClaims
	SubjectID uuid.UUID     `json:"sub_id"`
	Kind      PrincipalKind `json:"kind"`
	Email     string        `json:"email"`
	Purpose   string        `json:"purpose,omitempty"`
}

// TokenService issues and validates access tokens.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

func NewTokenService(secret string, expiry time.Duration) *TokenService {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), expiry: expiry}
}

func (s *TokenService) Generate(subjectID uuid.UUID, kind PrincipalKind, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		SubjectID: subjectID,
		Kind:      kind,
		Email:     email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// GenerateReset issues a one-hour token only ResetPassword accepts.
func (s *TokenService) GenerateReset(subjectID uuid.UUID, kind PrincipalKind, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(resetExpiry)),
		},
		SubjectID: subjectID,
		Kind:      kind,
		Email:     email,
		Purpose:   purposeReset,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" {
		return nil, fmt.Errorf("token is not an access token")
	}
	return claims, nil
}

// ValidateReset accepts only tokens issued by GenerateReset.
func (s *TokenService) ValidateReset(tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purposeReset {
		return nil, fmt.Errorf("token is not a password reset token")
	}
	return claims, nil
}

func (s *TokenService) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Kind != PrincipalDonor && claims.Kind != PrincipalHospital {
		return nil, fmt.Errorf("unknown principal kind %q", claims.Kind)
	}
	return claims, nil
}
