package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/model"
)

type hospitalRepo struct {
	s *Store
}

func (r *hospitalRepo) Create(ctx context.Context, hospital *model.Hospital) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, h := range r.s.hospitals {
		if h.Name == hospital.Name {
			return apperrors.Conflict("hospital name already registered", nil)
		}
	}
	stamp(&hospital.Base)
	r.s.hospitals[hospital.ID] = *hospital
	return nil
}

func (r *hospitalRepo) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	h, ok := r.s.hospitals[id]
	if !ok {
		return nil, apperrors.NotFound("hospital", nil)
	}
	return &h, nil
}

func (r *hospitalRepo) List(ctx context.Context) ([]*model.Hospital, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.Hospital
	for _, h := range r.s.hospitals {
		cp := h
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *hospitalRepo) CreateStaff(ctx context.Context, staff *model.HospitalStaff) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, st := range r.s.staff {
		if st.Email == staff.Email {
			return apperrors.Conflict("email already registered", nil)
		}
	}
	stamp(&staff.Base)
	r.s.staff[staff.ID] = *staff
	return nil
}

func (r *hospitalRepo) GetStaff(ctx context.Context, id uuid.UUID) (*model.HospitalStaff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.staff[id]
	if !ok {
		return nil, apperrors.NotFound("hospital staff", nil)
	}
	return &st, nil
}

func (r *hospitalRepo) GetStaffByEmail(ctx context.Context, email string) (*model.HospitalStaff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, st := range r.s.staff {
		if st.Email == email {
			cp := st
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("hospital staff", nil)
}
