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

type bloodRequestRepository struct {
	db *sqlx.DB
}

func NewBloodRequestRepository(db *sqlx.DB) repository.BloodRequestRepository {
	return &bloodRequestRepository{db: db}
}

func (r *bloodRequestRepository) Create(ctx context.Context, request *model.BloodRequest) error {
	query := `
		INSERT INTO blood_requests (
			id, patient_id, blood_group, units_required, urgency, reason,
			location_lat, location_long, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	request.ID = uuid.New()
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		request.ID,
		request.PatientID,
		request.BloodGroup,
		request.UnitsRequired,
		request.Urgency,
		request.Reason,
		request.LocationLat,
		request.LocationLong,
		request.Status,
		request.CreatedAt,
		request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create blood request: %w", err)
	}
	return nil
}

func (r *bloodRequestRepository) Get(ctx context.Context, id uuid.UUID) (*model.BloodRequest, error) {
	query := `
		SELECT id, patient_id, blood_group, units_required, urgency, reason,
			   location_lat, location_long, status, created_at, updated_at
		FROM blood_requests
		WHERE id = $1
	`
	var request model.BloodRequest
	err := r.db.GetContext(ctx, &request, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("blood request", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blood request: %w", err)
	}
	return &request, nil
}

func (r *bloodRequestRepository) Update(ctx context.Context, request *model.BloodRequest) error {
	query := `
		UPDATE blood_requests
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	request.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query, request.Status, request.UpdatedAt, request.ID)
	if err != nil {
		return fmt.Errorf("failed to update blood request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("blood request", nil)
	}
	return nil
}

func (r *bloodRequestRepository) List(ctx context.Context, filters *model.BloodRequestFilters) ([]*model.BloodRequest, error) {
	query := `
		SELECT id, patient_id, blood_group, units_required, urgency, reason,
			   location_lat, location_long, status, created_at, updated_at
		FROM blood_requests
		WHERE 1 = 1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if filters.BloodGroup != "" {
			query += fmt.Sprintf(" AND blood_group = $%d", argCount)
			args = append(args, filters.BloodGroup)
			argCount++
		}
	}

	query += " ORDER BY created_at DESC"

	var requests []*model.BloodRequest
	err := r.db.SelectContext(ctx, &requests, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list blood requests: %w", err)
	}
	return requests, nil
}

func (r *bloodRequestRepository) ListForPerson(ctx context.Context, personID uuid.UUID) ([]*model.BloodRequest, error) {
	query := `
		SELECT DISTINCT br.id, br.patient_id, br.blood_group, br.units_required,
			   br.urgency, br.reason, br.location_lat, br.location_long,
			   br.status, br.created_at, br.updated_at
		FROM blood_requests br
		LEFT JOIN donations d ON d.blood_request_id = br.id
		WHERE br.patient_id = $1 OR d.donor_id = $1
		ORDER BY br.created_at DESC
	`
	var requests []*model.BloodRequest
	err := r.db.SelectContext(ctx, &requests, query, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blood requests for person: %w", err)
	}
	return requests, nil
}
