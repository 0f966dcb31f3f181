package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/model"
)

type requestRepo struct {
	s *Store
}

func (r *requestRepo) Create(ctx context.Context, request *model.BloodRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stamp(&request.Base)
	r.s.requests[request.ID] = *request
	return nil
}

func (r *requestRepo) Get(ctx context.Context, id uuid.UUID) (*model.BloodRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, apperrors.NotFound("blood request", nil)
	}
	return &req, nil
}

func (r *requestRepo) Update(ctx context.Context, request *model.BloodRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.requests[request.ID]; !ok {
		return apperrors.NotFound("blood request", nil)
	}
	r.s.requests[request.ID] = *request
	return nil
}

func (r *requestRepo) List(ctx context.Context, filters *model.BloodRequestFilters) ([]*model.BloodRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.BloodRequest
	for _, req := range r.s.requests {
		if filters != nil {
			if filters.Status != "" && req.Status != filters.Status {
				continue
			}
			if filters.BloodGroup != "" && req.BloodGroup != filters.BloodGroup {
				continue
			}
		}
		cp := req
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *requestRepo) ListForPerson(ctx context.Context, personID uuid.UUID) ([]*model.BloodRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	involved := make(map[uuid.UUID]bool)
	for _, d := range r.s.donations {
		if d.DonorID == personID {
			involved[d.BloodRequestID] = true
		}
	}

	var out []*model.BloodRequest
	for _, req := range r.s.requests {
		if req.PatientID != personID && !involved[req.ID] {
			continue
		}
		cp := req
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
