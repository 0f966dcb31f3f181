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

type bloodTestRepository struct {
	db *sqlx.DB
}

func NewBloodTestRepository(db *sqlx.DB) repository.BloodTestRepository {
	return &bloodTestRepository{db: db}
}

func (r *bloodTestRepository) Create(ctx context.Context, test *model.BloodTest) error {
	query := `
		INSERT INTO blood_tests (
			id, donation_id, tested_by_hospital_id, sugar_level, uric_acid_level,
			wbc_count, rbc_count, hemoglobin, platelet_count, life_saved,
			risk_assessment, risk_summary, risk_confidence, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	test.ID = uuid.New()
	test.CreatedAt = time.Now()
	test.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		test.ID,
		test.DonationID,
		test.TestedByHospitalID,
		test.SugarLevel,
		test.UricAcidLevel,
		test.WBCCount,
		test.RBCCount,
		test.Hemoglobin,
		test.PlateletCount,
		test.LifeSaved,
		test.RiskAssessment,
		test.RiskSummary,
		test.RiskConfidence,
		test.CreatedAt,
		test.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create blood test: %w", err)
	}
	return nil
}

func (r *bloodTestRepository) GetByDonation(ctx context.Context, donationID uuid.UUID) (*model.BloodTest, error) {
	query := `
		SELECT id, donation_id, tested_by_hospital_id, sugar_level, uric_acid_level,
			   wbc_count, rbc_count, hemoglobin, platelet_count, life_saved,
			   risk_assessment, risk_summary, risk_confidence, created_at, updated_at
		FROM blood_tests
		WHERE donation_id = $1
	`
	var test model.BloodTest
	err := r.db.GetContext(ctx, &test, query, donationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("blood test", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blood test: %w", err)
	}
	return &test, nil
}

func (r *bloodTestRepository) Update(ctx context.Context, test *model.BloodTest) error {
	query := `
		UPDATE blood_tests
		SET sugar_level = $1, uric_acid_level = $2, wbc_count = $3, rbc_count = $4,
			hemoglobin = $5, platelet_count = $6, life_saved = $7,
			risk_assessment = $8, risk_summary = $9, risk_confidence = $10,
			updated_at = $11
		WHERE id = $12
	`
	test.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		test.SugarLevel,
		test.UricAcidLevel,
		test.WBCCount,
		test.RBCCount,
		test.Hemoglobin,
		test.PlateletCount,
		test.LifeSaved,
		test.RiskAssessment,
		test.RiskSummary,
		test.RiskConfidence,
		test.UpdatedAt,
		test.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update blood test: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("blood test", nil)
	}
	return nil
}
