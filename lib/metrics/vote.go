package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type VoteMetrics struct {
	CastsTotal       metrics.Counter
	WithdrawalsTotal metrics.Counter
	OpenWindow       metrics.Gauge
}

func (v *VoteMetrics) MarkCast() {
	v.CastsTotal.Add(1)
}

func (v *VoteMetrics) MarkWithdrawal() {
	v.WithdrawalsTotal.Add(1)
}

func (v *VoteMetrics) SetWindowOpen(open bool) {
	if open {
		v.OpenWindow.Set(1)
	} else {
		v.OpenWindow.Set(0)
	}
}

func PromVoteMetrics() *VoteMetrics {
	return &VoteMetrics{
		CastsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: VoteSubsystem,
			Name:      "casts_total",
			Help:      "Total number of votes cast.",
		}, []string{}),
		WithdrawalsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: VoteSubsystem,
			Name:      "withdrawals_total",
			Help:      "Total number of vote withdrawals, full and partial.",
		}, []string{}),
		OpenWindow: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: VoteSubsystem,
			Name:      "open_window",
			Help:      "Whether a voting window is currently open.",
		}, []string{}),
	}
}

func NopVoteMetrics() *VoteMetrics {
	return &VoteMetrics{
		CastsTotal:       discard.NewCounter(),
		WithdrawalsTotal: discard.NewCounter(),
		OpenWindow:       discard.NewGauge(),
	}
}
