package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	matchResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coachops",
			Subsystem: "matching",
			Name:      "results_total",
			Help:      "Auto-match outcomes by result.",
		},
		[]string{"outcome"},
	)

	selectionChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coachops",
			Subsystem: "matching",
			Name:      "selection_checks_total",
			Help:      "Manual coach selection validations by verdict.",
		},
		[]string{"valid"},
	)

	accessDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coachops",
			Subsystem: "access",
			Name:      "decisions_total",
			Help:      "Access decisions by resulting state.",
		},
		[]string{"state"},
	)

	accessViolations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coachops",
			Subsystem: "access",
			Name:      "violations_total",
			Help:      "Route-table violations by attempted primary role.",
		},
		[]string{"role"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coachops",
			Subsystem: "notify",
			Name:      "sent_total",
			Help:      "Admin notifications by delivery status.",
		},
		[]string{"status"},
	)
)

func init() {
	Registry.MustRegister(
		matchResults,
		selectionChecks,
		accessDecisions,
		accessViolations,
		notifications,
	)
}

// Handler exposes Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func ObserveMatch(outcome string) {
	matchResults.WithLabelValues(outcome).Inc()
}

func ObserveSelection(valid bool) {
	label := "false"
	if valid {
		label = "true"
	}
	selectionChecks.WithLabelValues(label).Inc()
}

func ObserveAccess(state string) {
	accessDecisions.WithLabelValues(state).Inc()
}

func ObserveViolation(role string) {
	accessViolations.WithLabelValues(role).Inc()
}

func ObserveNotification(status string) {
	notifications.WithLabelValues(status).Inc()
}
