package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository"
)

type hospitalRepository struct {
	db *sqlx.DB
}

func NewHospitalRepository(db *sqlx.DB) repository.HospitalRepository {
	return &hospitalRepository{db: db}
}

func (r *hospitalRepository) Create(ctx context.Context, hospital *model.Hospital) error {
	query := `
		INSERT INTO hospitals (
			id, name, address, phone_number, location_lat, location_long,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	hospital.ID = uuid.New()
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		hospital.ID,
		hospital.Name,
		hospital.Address,
		hospital.PhoneNumber,
		hospital.LocationLat,
		hospital.LocationLong,
		hospital.CreatedAt,
		hospital.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}
	return nil
}

func (r *hospitalRepository) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	query := `
		SELECT id, name, address, phone_number, location_lat, location_long,
			   created_at, updated_at
		FROM hospitals
		WHERE id = $1
	`
	var hospital model.Hospital
	err := r.db.GetContext(ctx, &hospital, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("hospital", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital: %w", err)
	}
	return &hospital, nil
}

func (r *hospitalRepository) List(ctx context.Context) ([]*model.Hospital, error) {
	query := `
		SELECT id, name, address, phone_number, location_lat, location_long,
			   created_at, updated_at
		FROM hospitals
		ORDER BY name ASC
	`
	var hospitals []*model.Hospital
	err := r.db.SelectContext(ctx, &hospitals, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hospitals, nil
}

func (r *hospitalRepository) CreateStaff(ctx context.Context, staff *model.HospitalStaff) error {
	query := `
		INSERT INTO hospital_staff (
			id, hospital_id, email, password_hash, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	staff.ID = uuid.New()
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		staff.ID,
		staff.HospitalID,
		staff.Email,
		staff.PasswordHash,
		staff.CreatedAt,
		staff.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create hospital staff: %w", err)
	}
	return nil
}

func (r *hospitalRepository) GetStaff(ctx context.Context, id uuid.UUID) (*model.HospitalStaff, error) {
	query := `
		SELECT id, hospital_id, email, password_hash, created_at, updated_at
		FROM hospital_staff
		WHERE id = $1
	`
	var staff model.HospitalStaff
	err := r.db.GetContext(ctx, &staff, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("hospital staff", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital staff: %w", err)
	}
	return &staff, nil
}

func (r *hospitalRepository) GetStaffByEmail(ctx context.Context, email string) (*model.HospitalStaff, error) {
	query := `
		SELECT id, hospital_id, email, password_hash, created_at, updated_at
		FROM hospital_staff
		WHERE email = $1
	`
	var staff model.HospitalStaff
	err := r.db.GetContext(ctx, &staff, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("hospital staff", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital staff by email: %w", err)
	}
	return &staff, nil
}
