package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for conference queries.
type Metrics struct {
	FilterRejected *prometheus.CounterVec
	QueryDuration  prometheus.Histogram
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FilterRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "confcentral_conference_filter_rejected_total",
			Help: "Conference queries rejected during filter compilation, by error code",
		}, []string{"code"}),
		QueryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "confcentral_conference_query_duration_seconds",
			Help:    "Duration of compiled conference queries against the store",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementFilterRejected records a rejected filter by error code.
func (m *Metrics) IncrementFilterRejected(code string) {
	if m != nil {
		m.FilterRejected.WithLabelValues(code).Inc()
	}
}

// ObserveQuery records the duration of a store query.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveQuery(start time.Time) {
	if m != nil {
		m.QueryDuration.Observe(time.Since(start).Seconds())
	}
}
