package memory

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/model"
)

type personRepo struct {
	s *Store
}

func (r *personRepo) Create(ctx context.Context, person *model.Person) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.persons {
		if p.Email == person.Email {
			return apperrors.Conflict("email already registered", nil)
		}
	}
	stamp(&person.Base)
	r.s.persons[person.ID] = *person
	return nil
}

func (r *personRepo) Get(ctx context.Context, id uuid.UUID) (*model.Person, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.persons[id]
	if !ok {
		return nil, apperrors.NotFound("person", nil)
	}
	return &p, nil
}

func (r *personRepo) GetByEmail(ctx context.Context, email string) (*model.Person, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.persons {
		if p.Email == email {
			cp := p
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("person", nil)
}

func (r *personRepo) Update(ctx context.Context, person *model.Person) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.persons[person.ID]; !ok {
		return apperrors.NotFound("person", nil)
	}
	r.s.persons[person.ID] = *person
	return nil
}

func (r *personRepo) ListDonors(ctx context.Context, filters *model.PersonFilters) ([]*model.Person, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.Person
	for _, p := range r.s.persons {
		if !p.IsDonor {
			continue
		}
		if filters != nil {
			if filters.BloodGroup != "" && p.BloodGroup != filters.BloodGroup {
				continue
			}
			if filters.HasLocation && (p.LocationLat == nil || p.LocationLong == nil) {
				continue
			}
		}
		cp := p
		out = append(out, &cp)
	}
	return out, nil
}
