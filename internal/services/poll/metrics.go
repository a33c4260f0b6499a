package poll

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	created       prometheus.Counter
	registrations prometheus.Counter
	closed        *prometheus.CounterVec
	active        prometheus.Gauge
}

// newMetrics registers the poll collectors. A nil registry yields unregistered
// collectors.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		created: factory.NewCounter(prometheus.CounterOpts{
			Name: "lfgbot_polls_created_total",
			Help: "Session polls created",
		}),
		registrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "lfgbot_poll_availability_registrations_total",
			Help: "Availability registrations accepted",
		}),
		closed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lfgbot_polls_closed_total",
			Help: "Session polls closed, by final state",
		}, []string{"state"}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lfgbot_polls_active",
			Help: "Session polls currently open",
		}),
	}
}

func (m *metrics) pollClosed(state State) {
	m.closed.WithLabelValues(string(state)).Inc()
	m.active.Dec()
}
