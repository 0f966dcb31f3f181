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

type donationRepository struct {
	db *sqlx.DB
}

func NewDonationRepository(db *sqlx.DB) repository.DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, donation *model.Donation) error {
	query := `
		INSERT INTO donations (
			id, donor_id, blood_request_id, hospital_id, status,
			donation_date, ai_recommended_hospital, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	donation.ID = uuid.New()
	donation.CreatedAt = time.Now()
	donation.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		donation.ID,
		donation.DonorID,
		donation.BloodRequestID,
		donation.HospitalID,
		donation.Status,
		donation.DonationDate,
		donation.AIRecommendedHospital,
		donation.CreatedAt,
		donation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}
	return nil
}

func (r *donationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	query := `
		SELECT id, donor_id, blood_request_id, hospital_id, status,
			   donation_date, ai_recommended_hospital, created_at, updated_at
		FROM donations
		WHERE id = $1
	`
	var donation model.Donation
	err := r.db.GetContext(ctx, &donation, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("donation", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}
	return &donation, nil
}

func (r *donationRepository) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]*model.Donation, error) {
	query := `
		SELECT id, donor_id, blood_request_id, hospital_id, status,
			   donation_date, ai_recommended_hospital, created_at, updated_at
		FROM donations
		WHERE donor_id = $1
		ORDER BY created_at DESC
	`
	var donations []*model.Donation
	err := r.db.SelectContext(ctx, &donations, query, donorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations by donor: %w", err)
	}
	return donations, nil
}

func (r *donationRepository) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.Donation, error) {
	query := `
		SELECT id, donor_id, blood_request_id, hospital_id, status,
			   donation_date, ai_recommended_hospital, created_at, updated_at
		FROM donations
		WHERE hospital_id = $1
		ORDER BY created_at DESC
	`
	var donations []*model.Donation
	err := r.db.SelectContext(ctx, &donations, query, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations by hospital: %w", err)
	}
	return donations, nil
}

// MarkScheduled relies on the WHERE status guard for the accept race: two
// concurrent accepts both issue the UPDATE, only one sees a row affected.
func (r *donationRepository) MarkScheduled(ctx context.Context, id uuid.UUID, hospitalID *uuid.UUID, aiRecommended bool) (bool, error) {
	query := `
		UPDATE donations
		SET status = $1, hospital_id = $2, ai_recommended_hospital = $3, updated_at = $4
		WHERE id = $5 AND status = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		model.DonationStatusScheduled,
		hospitalID,
		aiRecommended,
		time.Now(),
		id,
		model.DonationStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark donation scheduled: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *donationRepository) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE donations
		SET status = $1, donation_date = COALESCE(donation_date, $2), updated_at = $3
		WHERE id = $4 AND status = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		model.DonationStatusCompleted,
		at,
		time.Now(),
		id,
		model.DonationStatusScheduled,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark donation completed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *donationRepository) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE donations
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status IN ($4, $5)
	`
	result, err := r.db.ExecContext(ctx, query,
		model.DonationStatusCancelled,
		time.Now(),
		id,
		model.DonationStatusPending,
		model.DonationStatusScheduled,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark donation cancelled: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *donationRepository) CountCompletedForRequest(ctx context.Context, requestID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM donations
		WHERE blood_request_id = $1 AND status = $2
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, requestID, model.DonationStatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed donations: %w", err)
	}
	return count, nil
}
