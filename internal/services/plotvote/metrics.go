package plotvote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	created prometheus.Counter
	ballots prometheus.Counter
	ended   *prometheus.CounterVec
	active  prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		created: factory.NewCounter(prometheus.CounterOpts{
			Name: "lfgbot_plot_votes_created_total",
			Help: "Plot point votes started",
		}),
		ballots: factory.NewCounter(prometheus.CounterOpts{
			Name: "lfgbot_plot_vote_ballots_total",
			Help: "Ballots cast, including changed votes",
		}),
		ended: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lfgbot_plot_votes_ended_total",
			Help: "Plot point votes ended, by result",
		}, []string{"result"}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lfgbot_plot_votes_active",
			Help: "Plot point votes currently running",
		}),
	}
}

func (m *metrics) voteEnded(o Outcome) {
	result := "winner"
	switch {
	case len(o.Winners) == 0:
		result = "no_votes"
	case o.Tie():
		result = "tie"
	}
	m.ended.WithLabelValues(result).Inc()
	m.active.Dec()
}
