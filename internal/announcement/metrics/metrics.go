package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks announcement re-derivation.
type Metrics struct {
	Refreshes *prometheus.CounterVec
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "confcentral_announcement_refreshes_total",
			Help: "Announcement re-derivations by kind and result (set, cleared, unchanged, error)",
		}, []string{"kind", "result"}),
	}
}

func (m *Metrics) IncrementRefresh(kind, result string) {
	if m != nil {
		m.Refreshes.WithLabelValues(kind, result).Inc()
	}
}
