package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Matching engine
	DonorSearches      prometheus.Counter
	DonorsMatched      prometheus.Histogram
	HospitalSelections *prometheus.CounterVec // source: advisor|fallback|none

	// Donation lifecycle
	DonationTransitions *prometheus.CounterVec // transition label
	LivesSaved          prometheus.Counter

	// External advisor calls
	AdvisorCalls   *prometheus.CounterVec // advisor, status labels
	AdvisorLatency *prometheus.HistogramVec

	// Notifications
	NotificationsEmitted *prometheus.CounterVec // type label
}

// New creates and registers all application metrics
func New(namespace string) *Metrics {
	return &Metrics{
		DonorSearches: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "donor_searches_total",
			Help:      "Total number of nearby-donor searches",
		}),
		DonorsMatched: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "donors_matched_per_search",
			Help:      "Number of donors returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		HospitalSelections: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hospital_selections_total",
			Help:      "Hospital selections by decision source",
		}, []string{"source"}),
		DonationTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "donation_transitions_total",
			Help:      "Donation state machine transitions",
		}, []string{"transition"}),
		LivesSaved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lives_saved_total",
			Help:      "Total life-saved confirmations",
		}),
		AdvisorCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisor_calls_total",
			Help:      "External advisor calls by outcome",
		}, []string{"advisor", "status"}),
		AdvisorLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "advisor_call_duration_seconds",
			Help:      "Duration of external advisor calls",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 15},
		}, []string{"advisor"}),
		NotificationsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_emitted_total",
			Help:      "Notifications emitted by type",
		}, []string{"type"}),
	}
}
