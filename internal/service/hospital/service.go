package hospital

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/projectred/donor-api/config"
	"github.com/projectred/donor-api/pkg/geo"
	"github.com/projectred/donor-api/pkg/logger"
	"github.com/projectred/donor-api/pkg/metrics"

	"github.com/projectred/donor-api/internal/advisor"
	"github.com/projectred/donor-api/internal/model"
	"github.com/projectred/donor-api/internal/repository"
)

const hospitalListKey = "hospitals"

// Selection is the outcome of picking a hospital for a donation.
// Hospital is nil when no hospitals are registered; the lifecycle
// proceeds with the assignment unset rather than failing the accept.
type Selection struct {
	Hospital      *model.Hospital
	AIRecommended bool
}

// Service owns the hospital directory and the selection policy. The
// directory is reference data and small, so it is cached wholesale.
type Service struct {
	repo    repository.HospitalRepository
	advisor advisor.HospitalAdvisor
	cache   *cache.Cache
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewService creates the service. adv may be nil for fallback-only mode.
func NewService(repo repository.HospitalRepository, adv advisor.HospitalAdvisor, matching config.MatchingConfig, m *metrics.Metrics, log *logger.Logger) *Service {
	ttl := matching.HospitalCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		repo:    repo,
		advisor: adv,
		cache:   cache.New(ttl, 2*ttl),
		metrics: m,
		logger:  log,
	}
}

func (s *Service) Create(ctx context.Context, hospital *model.Hospital) error {
	if err := s.repo.Create(ctx, hospital); err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}
	s.cache.Delete(hospitalListKey)
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Hospital, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.Hospital, error) {
	if cached, ok := s.cache.Get(hospitalListKey); ok {
		return cached.([]*model.Hospital), nil
	}
	hospitals, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	s.cache.SetDefault(hospitalListKey, hospitals)
	return hospitals, nil
}

// Nearby returns hospitals within radiusKm of the origin, closest first.
func (s *Service) Nearby(ctx context.Context, origin geo.Coordinate, radiusKm float64) ([]*model.HospitalMatch, error) {
	hospitals, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var matches []*model.HospitalMatch
	for _, h := range hospitals {
		d := geo.Distance(origin, h.Coordinate())
		if d <= radiusKm {
			matches = append(matches, &model.HospitalMatch{Hospital: h, DistanceKm: d})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].DistanceKm < matches[j].DistanceKm })
	return matches, nil
}

// Select picks the hospital for a donation between a donor and a patient.
// The advisor gets the ranked candidate list first; on any failure the
// choice degrades to the candidate minimizing the combined travel
// distance. AIRecommended records which path decided.
func (s *Service) Select(ctx context.Context, donor, patient geo.Coordinate) (*Selection, error) {
	hospitals, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(hospitals) == 0 {
		s.countSelection("none")
		return &Selection{}, nil
	}

	candidates := rankCandidates(hospitals, donor, patient)
	byID := make(map[uuid.UUID]*model.Hospital, len(hospitals))
	for _, h := range hospitals {
		byID[h.ID] = h
	}

	if s.advisor != nil {
		start := time.Now()
		id, err := s.advisor.RecommendHospital(ctx, candidates)
		if s.metrics != nil {
			s.metrics.AdvisorLatency.WithLabelValues("hospital").Observe(time.Since(start).Seconds())
		}
		if err == nil {
			if chosen, ok := byID[id]; ok {
				if s.metrics != nil {
					s.metrics.AdvisorCalls.WithLabelValues("hospital", "ok").Inc()
				}
				s.countSelection("advisor")
				return &Selection{Hospital: chosen, AIRecommended: true}, nil
			}
			err = fmt.Errorf("advisor returned unknown hospital %s", id)
		}
		if s.metrics != nil {
			s.metrics.AdvisorCalls.WithLabelValues("hospital", "error").Inc()
		}
		if s.logger != nil {
			s.logger.Warn("hospital advisor failed, using nearest", "error", err.Error())
		}
	}

	s.countSelection("fallback")
	return &Selection{Hospital: byID[candidates[0].ID]}, nil
}

func (s *Service) countSelection(source string) {
	if s.metrics != nil {
		s.metrics.HospitalSelections.WithLabelValues(source).Inc()
	}
}

// rankCandidates orders hospitals by combined donor plus patient travel
// distance, closest combination first.
func rankCandidates(hospitals []*model.Hospital, donor, patient geo.Coordinate) []model.HospitalCandidate {
	candidates := make([]model.HospitalCandidate, 0, len(hospitals))
	for _, h := range hospitals {
		dd := geo.Distance(donor, h.Coordinate())
		pd := geo.Distance(patient, h.Coordinate())
		candidates = append(candidates, model.HospitalCandidate{
			ID:              h.ID,
			Name:            h.Name,
			Address:         h.Address,
			DonorDistance:   dd,
			PatientDistance: pd,
			TotalDistance:   dd + pd,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].TotalDistance < candidates[j].TotalDistance
	})
	return candidates
}
