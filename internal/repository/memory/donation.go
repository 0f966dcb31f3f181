package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/projectred/donor-api/pkg/errors"

	"github.com/projectred/donor-api/internal/model"
)

type donationRepo struct {
	s *Store
}

func (r *donationRepo) Create(ctx context.Context, donation *model.Donation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stamp(&donation.Base)
	r.s.donations[donation.ID] = *donation
	return nil
}

func (r *donationRepo) Get(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.donations[id]
	if !ok {
		return nil, apperrors.NotFound("donation", nil)
	}
	return &d, nil
}

func (r *donationRepo) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]*model.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.Donation
	for _, d := range r.s.donations {
		if d.DonorID != donorID {
			continue
		}
		cp := d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *donationRepo) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.Donation
	for _, d := range r.s.donations {
		if d.HospitalID == nil || *d.HospitalID != hospitalID {
			continue
		}
		cp := d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *donationRepo) MarkScheduled(ctx context.Context, id uuid.UUID, hospitalID *uuid.UUID, aiRecommended bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.donations[id]
	if !ok || d.Status != model.DonationStatusPending {
		return false, nil
	}
	d.Status = model.DonationStatusScheduled
	d.HospitalID = hospitalID
	d.AIRecommendedHospital = aiRecommended
	d.UpdatedAt = time.Now()
	r.s.donations[id] = d
	return true, nil
}

func (r *donationRepo) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.donations[id]
	if !ok || d.Status != model.DonationStatusScheduled {
		return false, nil
	}
	d.Status = model.DonationStatusCompleted
	if d.DonationDate == nil {
		t := at
		d.DonationDate = &t
	}
	d.UpdatedAt = time.Now()
	r.s.donations[id] = d
	return true, nil
}

func (r *donationRepo) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.donations[id]
	if !ok {
		return false, nil
	}
	if d.Status != model.DonationStatusPending && d.Status != model.DonationStatusScheduled {
		return false, nil
	}
	d.Status = model.DonationStatusCancelled
	d.UpdatedAt = time.Now()
	r.s.donations[id] = d
	return true, nil
}

func (r *donationRepo) CountCompletedForRequest(ctx context.Context, requestID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	count := 0
	for _, d := range r.s.donations {
		if d.BloodRequestID == requestID && d.Status == model.DonationStatusCompleted {
			count++
		}
	}
	return count, nil
}
