// Package metrics holds the Prometheus collectors for API request outcomes.
//
// Collectors live on a package Registry rather than the default one so that
// embedding programs decide whether to expose them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	Registry = prometheus.NewRegistry()

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contactx_client_requests_total",
			Help: "API requests by HTTP method and classifier outcome.",
		},
		[]string{"method", "outcome"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contactx_client_request_duration_seconds",
			Help:    "API request latency including classification.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	Registry.MustRegister(RequestsTotal, RequestDuration)
}

// ObserveRequest records one finished request.
func ObserveRequest(method, outcome string, d time.Duration) {
	RequestsTotal.WithLabelValues(method, outcome).Inc()
	RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Snapshot returns the request counters keyed by "method/outcome".
func Snapshot() (map[string]float64, error) {
	families, err := Registry.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, f := range families {
		if f.GetName() != "contactx_client_requests_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			var method, outcome string
			for _, l := range m.GetLabel() {
				switch l.GetName() {
				case "method":
					method = l.GetValue()
				case "outcome":
					outcome = l.GetValue()
				}
			}
			out[method+"/"+outcome] = m.GetCounter().GetValue()
		}
	}
	return out, nil
}
