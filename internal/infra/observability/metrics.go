package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/simaogato/kidbank-backend/internal/domain"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	rpcDuration        *prometheus.HistogramVec
	rpcTotal           *prometheus.CounterVec
	transactionsPosted *prometheus.CounterVec
	amountPosted       *prometheus.CounterVec
	lastInterestCredit prometheus.Gauge
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// metrics in it, so NewMetrics can be called more than once in tests.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		rpcDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kidbank_rpc_duration_seconds",
				Help:    "Duration of RPCs by method.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		rpcTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kidbank_rpc_total",
				Help: "Total RPCs by method and status code.",
			},
			[]string{"method", "code"},
		),
		transactionsPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kidbank_transactions_posted_total",
				Help: "Total transactions persisted, by kind.",
			},
			[]string{"kind"},
		),
		amountPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kidbank_amount_posted_minor_units_total",
				Help: "Sum of absolute amounts persisted, by kind.",
			},
			[]string{"kind"},
		),
		lastInterestCredit: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "kidbank_last_interest_credit_minor_units",
				Help: "Amount of the most recent interest credit.",
			},
		),
	}
}

// RecordRPC records the duration and outcome of an RPC
func (m *Metrics) RecordRPC(method, code string, d time.Duration) {
	m.rpcDuration.WithLabelValues(method).Observe(d.Seconds())
	m.rpcTotal.WithLabelValues(method, code).Inc()
}

// Publish implements domain.EventPublisher by counting posted transactions
func (m *Metrics) Publish(_ context.Context, event domain.TransactionPosted) error {
	kind := string(event.Kind)
	m.transactionsPosted.WithLabelValues(kind).Inc()

	amount := event.Amount
	if amount < 0 {
		amount = -amount
	}
	m.amountPosted.WithLabelValues(kind).Add(float64(amount))

	if event.Kind == domain.TransactionKindInterestCredit {
		m.lastInterestCredit.Set(float64(event.Amount))
	}
	return nil
}

var _ domain.EventPublisher = (*Metrics)(nil)
