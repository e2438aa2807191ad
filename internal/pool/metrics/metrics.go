package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	PoolsCreated         prometheus.Counter
	PoolsStarted         prometheus.Counter
	PoolsCompleted       prometheus.Counter
	ContributionsTotal   prometheus.Counter
	PayoutsTotal         prometheus.Counter
	PayoutAmount         prometheus.Counter
	TransferFailures     prometheus.Counter
	PayoutDurationSec    prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		PoolsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tanda_pools_created_total",
			Help: "Total number of pools created",
		}),
		PoolsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tanda_pools_started_total",
			Help: "Total number of pools that left the forming state",
		}),
		PoolsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tanda_pools_completed_total",
			Help: "Total number of pools that finished all rounds",
		}),
		ContributionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tanda_contributions_total",
			Help: "Total number of contributions recorded",
		}),
		PayoutsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tanda_payouts_total",
			Help: "Total number of round payouts executed",
		}),
		PayoutAmount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tanda_payout_amount_total",
			Help: "Cumulative value paid out across all pools",
		}),
		TransferFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tanda_transfer_failures_total",
			Help: "Total number of failed value transfers",
		}),
		PayoutDurationSec: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tanda_payout_duration_seconds",
			Help:    "Latency of payout execution including the fund transfer",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

func (m *Metrics) IncrementPoolsCreated()       { m.PoolsCreated.Inc() }
func (m *Metrics) IncrementPoolsStarted()       { m.PoolsStarted.Inc() }
func (m *Metrics) IncrementPoolsCompleted()     { m.PoolsCompleted.Inc() }
func (m *Metrics) IncrementContributions()      { m.ContributionsTotal.Inc() }
func (m *Metrics) IncrementPayouts()            { m.PayoutsTotal.Inc() }
func (m *Metrics) AddPayoutAmount(amount int64) { m.PayoutAmount.Add(float64(amount)) }
func (m *Metrics) IncrementTransferFailures()   { m.TransferFailures.Inc() }
