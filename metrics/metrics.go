package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the tournament counters. A nil *Metrics records nothing,
// so services and tests may run without a registry.
type Metrics struct {
	registry *prometheus.Registry

	assignments   *prometheus.CounterVec
	advances      *prometheus.CounterVec
	matchesStored *prometheus.CounterVec
	issues        *prometheus.CounterVec
	transitions   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tournament",
			Name:      "slot_assignments_total",
			Help:      "Matches processed by auto-assignment, by discipline and outcome.",
		}, []string{"discipline", "outcome"}),
		advances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tournament",
			Name:      "bracket_advances_total",
			Help:      "Bracket advance attempts by discipline and resulting state.",
		}, []string{"discipline", "state"}),
		matchesStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tournament",
			Name:      "matches_created_total",
			Help:      "Matches persisted by phase.",
		}, []string{"phase"}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tournament",
			Name:      "engine_issues_total",
			Help:      "Issues reported by the scheduling and bracket engines, by kind.",
		}, []string{"kind"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tournament",
			Name:      "match_transitions_total",
			Help:      "Match state transitions by target state.",
		}, []string{"state"}),
	}
	reg.MustRegister(m.assignments, m.advances, m.matchesStored, m.issues, m.transitions,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Assigned(discipline string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.assignments.WithLabelValues(discipline, "assigned").Add(float64(n))
}

func (m *Metrics) Unassigned(discipline string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.assignments.WithLabelValues(discipline, "unassigned").Add(float64(n))
}

func (m *Metrics) Advanced(discipline, state string) {
	if m == nil {
		return
	}
	m.advances.WithLabelValues(discipline, state).Inc()
}

func (m *Metrics) MatchCreated(phase string) {
	if m == nil {
		return
	}
	m.matchesStored.WithLabelValues(phase).Inc()
}

func (m *Metrics) Issue(kind string) {
	if m == nil {
		return
	}
	m.issues.WithLabelValues(kind).Inc()
}

func (m *Metrics) Transition(state string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(state).Inc()
}
