package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transaction metrics
var (
	TransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTransactionsTotal,
			Help: HelpTextTransactionsTotal,
		},
		[]string{LabelKind, LabelOutcome},
	)

	CurrencySpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCurrencySpent,
			Help: HelpTextCurrencySpent,
		},
	)

	CurrencyEarned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCurrencyEarned,
			Help: HelpTextCurrencyEarned,
		},
	)
)

// Ledger metrics
var (
	ProviderChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameProviderChanges,
			Help: HelpTextProviderChanges,
		},
		[]string{LabelAction},
	)

	EffectCallFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEffectCallFailures,
			Help: HelpTextEffectCallFailures,
		},
		[]string{LabelCall},
	)
)

// Host metrics
var (
	ReplayHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameReplayHits,
			Help: HelpTextReplayHits,
		},
	)

	Participants = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameParticipants,
			Help: HelpTextParticipants,
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)
)

// RecordTransaction counts one transaction of kind.
func RecordTransaction(kind string, err error) {
	outcome := OutcomeAccepted
	if err != nil {
		outcome = OutcomeRejected
	}
	TransactionsTotal.WithLabelValues(kind, outcome).Inc()
}
