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

type personRepository struct {
	db *sqlx.DB
}

func NewPersonRepository(db *sqlx.DB) repository.PersonRepository {
	return &personRepository{db: db}
}

func (r *personRepository) Create(ctx context.Context, person *model.Person) error {
	query := `
		INSERT INTO persons (
			id, email, password_hash, first_name, last_name,
			blood_group, age, gender, phone_number, address,
			is_donor, is_recipient, location_lat, location_long,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	person.ID = uuid.New()
	person.CreatedAt = time.Now()
	person.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		person.ID,
		person.Email,
		person.PasswordHash,
		person.FirstName,
		person.LastName,
		person.BloodGroup,
		person.Age,
		person.Gender,
		person.PhoneNumber,
		person.Address,
		person.IsDonor,
		person.IsRecipient,
		person.LocationLat,
		person.LocationLong,
		person.CreatedAt,
		person.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}
	return nil
}

func (r *personRepository) Get(ctx context.Context, id uuid.UUID) (*model.Person, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name,
			   blood_group, age, gender, phone_number, address,
			   is_donor, is_recipient, location_lat, location_long,
			   created_at, updated_at
		FROM persons
		WHERE id = $1
	`
	var person model.Person
	err := r.db.GetContext(ctx, &person, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("person", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return &person, nil
}

func (r *personRepository) GetByEmail(ctx context.Context, email string) (*model.Person, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name,
			   blood_group, age, gender, phone_number, address,
			   is_donor, is_recipient, location_lat, location_long,
			   created_at, updated_at
		FROM persons
		WHERE email = $1
	`
	var person model.Person
	err := r.db.GetContext(ctx, &person, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("person", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person by email: %w", err)
	}
	return &person, nil
}

func (r *personRepository) Update(ctx context.Context, person *model.Person) error {
	query := `
		UPDATE persons
		SET first_name = $1, last_name = $2, phone_number = $3, address = $4,
			is_donor = $5, is_recipient = $6, location_lat = $7, location_long = $8,
			updated_at = $9
		WHERE id = $10
	`
	person.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		person.FirstName,
		person.LastName,
		person.PhoneNumber,
		person.Address,
		person.IsDonor,
		person.IsRecipient,
		person.LocationLat,
		person.LocationLong,
		person.UpdatedAt,
		person.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("person", nil)
	}
	return nil
}

func (r *personRepository) ListDonors(ctx context.Context, filters *model.PersonFilters) ([]*model.Person, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name,
			   blood_group, age, gender, phone_number, address,
			   is_donor, is_recipient, location_lat, location_long,
			   created_at, updated_at
		FROM persons
		WHERE is_donor = TRUE
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.BloodGroup != "" {
			query += fmt.Sprintf(" AND blood_group = $%d", argCount)
			args = append(args, filters.BloodGroup)
			argCount++
		}
		if filters.HasLocation {
			query += " AND location_lat IS NOT NULL AND location_long IS NOT NULL"
		}
	}

	var persons []*model.Person
	err := r.db.SelectContext(ctx, &persons, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list donors: %w", err)
	}
	return persons, nil
}
