package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/projectred/donor-api/pkg/logger"
	"github.com/projectred/donor-api/pkg/metrics"

	"github.com/projectred/donor-api/internal/advisor"
	"github.com/projectred/donor-api/internal/model"
)

// fallbackConfidence is the fixed confidence attached to rule-based
// assessments, deliberately below what the advisor typically reports.
const fallbackConfidence = 75

// Service turns donor lab values into a health-risk assessment. The
// external advisor is consulted first when configured; any failure drops
// to the deterministic range check, so Assess always produces a result.
type Service struct {
	advisor advisor.HealthAdvisor
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewService creates the assessor. adv may be nil for fallback-only mode.
func NewService(adv advisor.HealthAdvisor, m *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{advisor: adv, metrics: m, logger: log}
}

// Assess evaluates the profile. It never returns an error to the caller;
// advisor failures are logged and absorbed by the fallback.
func (s *Service) Assess(ctx context.Context, profile *model.HealthProfile) *model.Assessment {
	if s.advisor != nil {
		start := time.Now()
		assessment, err := s.advisor.AssessHealth(ctx, profile)
		if s.metrics != nil {
			s.metrics.AdvisorLatency.WithLabelValues("health").Observe(time.Since(start).Seconds())
		}
		if err == nil {
			if s.metrics != nil {
				s.metrics.AdvisorCalls.WithLabelValues("health", "ok").Inc()
			}
			return assessment
		}
		if s.metrics != nil {
			s.metrics.AdvisorCalls.WithLabelValues("health", "error").Inc()
		}
		if s.logger != nil {
			s.logger.Warn("health advisor failed, using fallback", "error", err.Error())
		}
	}
	return s.fallback(profile)
}

type labRange struct {
	name string
	unit string
	low  float64
	high float64
}

func ranges(gender model.Gender) map[string]labRange {
	r := map[string]labRange{
		"sugar":     {"sugar level", "mg/dL", 70, 100},
		"wbc":       {"WBC count", "cells/mcL", 4500, 11000},
		"platelets": {"platelet count", "per mcL", 150000, 450000},
	}
	if gender == model.GenderFemale {
		r["hemoglobin"] = labRange{"hemoglobin", "g/dL", 12.0, 15.5}
		r["uric_acid"] = labRange{"uric acid", "mg/dL", 2.4, 6.0}
		r["rbc"] = labRange{"RBC count", "million/mcL", 4.2, 5.4}
	} else {
		r["hemoglobin"] = labRange{"hemoglobin", "g/dL", 13.5, 17.5}
		r["uric_acid"] = labRange{"uric acid", "mg/dL", 3.4, 7.0}
		r["rbc"] = labRange{"RBC count", "million/mcL", 4.7, 6.1}
	}
	return r
}

// fallback checks each provided value against gender-adjusted normal
// ranges and reports the ones outside them.
func (s *Service) fallback(profile *model.HealthProfile) *model.Assessment {
	rs := ranges(profile.Gender)
	values := map[string]*float64{
		"sugar":      profile.SugarLevel,
		"uric_acid":  profile.UricAcidLevel,
		"wbc":        profile.WBCCount,
		"rbc":        profile.RBCCount,
		"hemoglobin": profile.Hemoglobin,
		"platelets":  profile.PlateletCount,
	}

	var findings []string
	for _, key := range []string{"sugar", "uric_acid", "wbc", "rbc", "hemoglobin", "platelets"} {
		v := values[key]
		if v == nil {
			continue
		}
		r := rs[key]
		switch {
		case *v < r.low:
			findings = append(findings, fmt.Sprintf("%s %.1f %s is below the normal range (%.1f-%.1f)", r.name, *v, r.unit, r.low, r.high))
		case *v > r.high:
			findings = append(findings, fmt.Sprintf("%s %.1f %s is above the normal range (%.1f-%.1f)", r.name, *v, r.unit, r.low, r.high))
		}
	}

	if len(findings) == 0 {
		summary := "All provided values are within normal ranges."
		return &model.Assessment{
			Summary:             summary,
			NotificationMessage: "Good news: your blood test results look normal.",
			FullText:            summary,
			Confidence:          fallbackConfidence,
			HasAbnormalities:    false,
		}
	}

	summary := "Some values are outside normal ranges: " + strings.Join(findings, "; ") + "."
	return &model.Assessment{
		Summary:             summary,
		NotificationMessage: "Some of your blood test values are outside the normal range. Please consult a doctor.",
		FullText:            summary,
		Confidence:          fallbackConfidence,
		HasAbnormalities:    true,
	}
}
