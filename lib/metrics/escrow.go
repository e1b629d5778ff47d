package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type EscrowMetrics struct {
	DepositsTotal  metrics.Counter
	ReleasesTotal  metrics.Counter
	FeesCollected  metrics.Counter
	ActiveEscrows  metrics.Gauge
	LockedTotal    metrics.Gauge
}

func (e *EscrowMetrics) MarkDeposit(locked uint64, fee uint64) {
	e.DepositsTotal.Add(1)
	e.FeesCollected.Add(float64(fee))
	e.ActiveEscrows.Add(1)
	e.LockedTotal.Add(float64(locked))
}

func (e *EscrowMetrics) MarkRelease(released uint64) {
	e.ReleasesTotal.Add(1)
	e.ActiveEscrows.Add(-1)
	e.LockedTotal.Add(-float64(released))
}

func (e *EscrowMetrics) MarkReturn(returned uint64, closed bool) {
	e.LockedTotal.Add(-float64(returned))
	if closed {
		e.ActiveEscrows.Add(-1)
	}
}

func PromEscrowMetrics() *EscrowMetrics {
	return &EscrowMetrics{
		DepositsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: EscrowSubsystem,
			Name:      "deposits_total",
			Help:      "Total number of deposits.",
		}, []string{}),
		ReleasesTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: EscrowSubsystem,
			Name:      "releases_total",
			Help:      "Total number of releases, forced releases and emergency withdrawals.",
		}, []string{}),
		FeesCollected: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: EscrowSubsystem,
			Name:      "fees_collected",
			Help:      "Total fee amount moved to the fee sink.",
		}, []string{}),
		ActiveEscrows: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: EscrowSubsystem,
			Name:      "active_escrows",
			Help:      "Number of active escrow records.",
		}, []string{}),
		LockedTotal: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: EscrowSubsystem,
			Name:      "locked_total",
			Help:      "Sum of all locked amounts.",
		}, []string{}),
	}
}

func NopEscrowMetrics() *EscrowMetrics {
	return &EscrowMetrics{
		DepositsTotal: discard.NewCounter(),
		ReleasesTotal: discard.NewCounter(),
		FeesCollected: discard.NewCounter(),
		ActiveEscrows: discard.NewGauge(),
		LockedTotal:   discard.NewGauge(),
	}
}
