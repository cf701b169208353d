package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for ledger operations.
const (
	OutcomeOK       = "ok"
	OutcomeNoop     = "noop"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Metrics provides observability for the registration ledger.
type Metrics struct {
	Registrations   *prometheus.CounterVec
	Unregistrations *prometheus.CounterVec
	TxDuration      *prometheus.HistogramVec
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "confcentral_registrations_total",
			Help: "Conference registration attempts by outcome",
		}, []string{"outcome"}),
		Unregistrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "confcentral_unregistrations_total",
			Help: "Conference unregistration attempts by outcome",
		}, []string{"outcome"}),
		TxDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "confcentral_registration_tx_duration_seconds",
			Help:    "Duration of registration ledger transactions",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementRegistration(outcome string) {
	if m != nil {
		m.Registrations.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementUnregistration(outcome string) {
	if m != nil {
		m.Unregistrations.WithLabelValues(outcome).Inc()
	}
}

// ObserveTx records the duration of a ledger transaction.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveTx(operation string, start time.Time) {
	if m != nil {
		m.TxDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
