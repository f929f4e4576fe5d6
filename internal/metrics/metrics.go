package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels.
const (
	ResultSuccess = "success"
	ResultNoop    = "noop"
	ResultExpired = "expired"
)

// Metrics provides observability for card transfers and status changes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Transfers        *prometheus.CounterVec
	TransferDuration prometheus.Histogram
	StatusChanges    *prometheus.CounterVec
	CardsExpired     prometheus.Counter
}

// New creates the metrics and registers them with reg. A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Transfers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bankcards_transfers_total",
			Help: "Total number of transfers by result",
		}, []string{"result"}),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankcards_transfer_duration_seconds",
			Help:    "Duration of transfers including lock waits",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		StatusChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bankcards_status_changes_total",
			Help: "Total number of card status change attempts by action and result",
		}, []string{"action", "result"}),
		CardsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "bankcards_cards_expired_total",
			Help: "Total number of cards moved to EXPIRED",
		}),
	}
}

// ObserveTransfer records a finished transfer.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveTransfer(start time.Time, result string) {
	if m == nil {
		return
	}
	m.Transfers.WithLabelValues(result).Inc()
	m.TransferDuration.Observe(time.Since(start).Seconds())
}

// IncrementStatusChange records a status change attempt.
func (m *Metrics) IncrementStatusChange(action, result string) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(action, result).Inc()
}

// IncrementCardsExpired records a card moved to EXPIRED.
func (m *Metrics) IncrementCardsExpired() {
	if m == nil {
		return
	}
	m.CardsExpired.Inc()
}
