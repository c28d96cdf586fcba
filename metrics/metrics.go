// Package metrics exposes Prometheus counters for the planning engine.
// Collectors register on the default registry; embedding applications decide
// whether and where to export them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Generations counts itinerary generations by outcome:
	// "llm", "mock", "regenerated", "failed".
	Generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "novatrip_generations_total",
		Help: "Itinerary generations by outcome.",
	}, []string{"outcome"})

	// Fallbacks counts collaborator fallbacks by stage:
	// "generate", "modify".
	Fallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "novatrip_fallbacks_total",
		Help: "Falls back to the mock planner or heuristic editor, by stage.",
	}, []string{"stage"})

	// Repairs counts validator repairs by warning code.
	Repairs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "novatrip_repairs_total",
		Help: "Validator repairs by warning code.",
	}, []string{"code"})

	// Undos counts undo requests by outcome: "restored", "empty".
	Undos = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "novatrip_undo_total",
		Help: "Undo requests by outcome.",
	}, []string{"outcome"})
)

// CountRepairs increments the repair counter for each warning code.
func CountRepairs(codes []string) {
	for _, code := range codes {
		Repairs.WithLabelValues(code).Inc()
	}
}
