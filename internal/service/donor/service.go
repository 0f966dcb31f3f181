package donor

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/projectred/donor-api/config"
	"github.com/projectred/donor-api/pkg/geo"
	"github.com/projectred/donor-api/pkg/logger"
	"github.com/projectred/donor-api/pkg/metrics"

	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository"
)

// Service implements the donor side of matching: radius searches over
// registered donors and the request feed a donor can browse. Profile
// reads and updates live here too since they share the person repo.
type Service struct {
	persons  repository.PersonRepository
	requests repository.BloodRequestRepository
	matching config.MatchingConfig
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewService(persons repository.PersonRepository, requests repository.BloodRequestRepository, matching config.MatchingConfig, m *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{
		persons:  persons,
		requests: requests,
		matching: matching,
		metrics:  m,
		logger:   log,
	}
}

// FindNearby returns donors of the given blood group within radiusKm of
// the origin, closest first. Donors without a stored location never
// match, and exclude removes the requesting person from their own
// results.
func (s *Service) FindNearby(ctx context.Context, origin geo.Coordinate, group model.BloodGroup, radiusKm float64, exclude uuid.UUID) ([]*model.DonorMatch, error) {
	if s.metrics != nil {
		s.metrics.DonorSearches.Inc()
	}

	donors, err := s.persons.ListDonors(ctx, &model.PersonFilters{
		BloodGroup:  group,
		HasLocation: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list donors: %w", err)
	}

	var matches []*model.DonorMatch
	for _, d := range donors {
		if d.ID == exclude {
			continue
		}
		coord := d.Coordinate()
		if coord == nil {
			continue
		}
		dist := geo.Distance(origin, *coord)
		if dist <= radiusKm {
			matches = append(matches, &model.DonorMatch{Donor: d, DistanceKm: dist})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].DistanceKm < matches[j].DistanceKm })

	if s.metrics != nil {
		s.metrics.DonorsMatched.Observe(float64(len(matches)))
	}
	return matches, nil
}

// AvailableRequests is the feed a donor browses: open requests for their
// blood group within the browse radius of their stored location, their
// own requests excluded. A donor without a location gets an empty feed.
func (s *Service) AvailableRequests(ctx context.Context, donorID uuid.UUID) ([]*model.RequestMatch, error) {
	donor, err := s.persons.Get(ctx, donorID)
	if err != nil {
		return nil, err
	}
	coord := donor.Coordinate()
	if coord == nil {
		return nil, nil
	}

	requests, err := s.requests.List(ctx, &model.BloodRequestFilters{BloodGroup: donor.BloodGroup})
	if err != nil {
		return nil, fmt.Errorf("failed to list blood requests: %w", err)
	}

	var matches []*model.RequestMatch
	for _, req := range requests {
		if !req.Open() || req.PatientID == donorID {
			continue
		}
		dist := geo.Distance(*coord, req.Coordinate())
		if dist <= s.matching.BrowseRadiusKm {
			matches = append(matches, &model.RequestMatch{Request: req, DistanceKm: dist})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].DistanceKm < matches[j].DistanceKm })
	return matches, nil
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*model.Person, error) {
	return s.persons.Get(ctx, id)
}

// UpdateProfile applies the non-nil fields of req to the person.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.Person, error) {
	person, err := s.persons.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		person.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		person.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		person.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		person.Address = *req.Address
	}
	if req.IsDonor != nil {
		person.IsDonor = *req.IsDonor
	}
	if req.IsRecipient != nil {
		person.IsRecipient = *req.IsRecipient
	}
	if req.LocationLat != nil && req.LocationLong != nil {
		person.SetCoordinate(geo.Coordinate{Lat: *req.LocationLat, Long: *req.LocationLong})
	}

	if err := s.persons.Update(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return person, nil
}
