package metrics

import (
	"net/http"
	"time"

	"github.com/dimitrije/harbor-teams/internal/teamform"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for form sessions and
// submissions.
type Metrics struct {
	registry *prometheus.Registry

	SubmissionsTotal    *prometheus.CounterVec
	SubmissionsInFlight prometheus.Gauge
	FormSessionsActive  prometheus.Gauge
	FormSessionsOpened  *prometheus.CounterVec
	ServerStartTime     prometheus.Gauge
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		SubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harbor_team_submissions_total",
			Help: "Team form submissions that reached the remote update call, by outcome.",
		}, []string{"outcome"}),

		SubmissionsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "harbor_team_submissions_in_flight",
			Help: "Remote team updates currently outstanding.",
		}),

		FormSessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "harbor_form_sessions_active",
			Help: "Open team form sessions.",
		}),

		FormSessionsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "harbor_form_sessions_opened_total",
			Help: "Team form sessions opened, by mode.",
		}, []string{"mode"}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "harbor_server_start_time_seconds",
			Help: "Unix time the server started.",
		}),
	}

	reg.MustRegister(
		m.SubmissionsTotal,
		m.SubmissionsInFlight,
		m.FormSessionsActive,
		m.FormSessionsOpened,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SubmissionStarted implements teamform.Observer.
func (m *Metrics) SubmissionStarted() {
	m.SubmissionsInFlight.Inc()
}

// SubmissionFinished implements teamform.Observer.
func (m *Metrics) SubmissionFinished(outcome teamform.Outcome) {
	m.SubmissionsInFlight.Dec()
	m.SubmissionsTotal.WithLabelValues(outcome.String()).Inc()
}

func (m *Metrics) SessionOpened(mode teamform.Mode) {
	m.FormSessionsActive.Inc()
	m.FormSessionsOpened.WithLabelValues(string(mode)).Inc()
}

func (m *Metrics) SessionClosed() {
	m.FormSessionsActive.Dec()
}
