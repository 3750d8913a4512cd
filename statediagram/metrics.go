package statediagram

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"

	promotionRoot     = "root"
	promotionAncestor = "ancestor"
)

var (
	// conversionsTotal tracks conversions by outcome (success/error).
	conversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statediagram_conversions_total",
		Help: "Total number of state diagram conversions by outcome (success or error)",
	}, []string{"outcome"})

	// conversionDuration tracks end-to-end conversion time.
	conversionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "statediagram_conversion_duration_seconds",
		Help:    "Duration of state diagram conversion by outcome",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"outcome"})

	// resolvedTotal tracks the size of resolved models.
	resolvedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statediagram_resolved_total",
		Help: "Total number of resolved elements by kind (state, transition, note)",
	}, []string{"kind"})

	// promotionsTotal tracks states moved between scopes during transition resolution.
	promotionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statediagram_promotions_total",
		Help: "Total number of state promotions by target (root or ancestor)",
	}, []string{"target"})

	// historyStatesTotal tracks synthesized history pseudostates.
	historyStatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "statediagram_history_states_total",
		Help: "Total number of history pseudostates created from annotations",
	})

	// historyUnresolvedTotal tracks history annotations that could not be applied.
	historyUnresolvedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statediagram_history_unresolved_total",
		Help: "Total number of history annotations that were skipped, by reason",
	}, []string{"reason"})
)

func recordConversion(outcome string, seconds float64) {
	conversionsTotal.WithLabelValues(outcome).Inc()
	conversionDuration.WithLabelValues(outcome).Observe(seconds)
}

func recordResolved(d *Diagram, stats resolveStats) {
	resolvedTotal.WithLabelValues("state").Add(float64(len(d.States)))
	resolvedTotal.WithLabelValues("transition").Add(float64(len(d.Transitions)))
	resolvedTotal.WithLabelValues("note").Add(float64(len(d.Notes)))

	promotionsTotal.WithLabelValues(promotionRoot).Add(float64(stats.rootPromotions))
	promotionsTotal.WithLabelValues(promotionAncestor).Add(float64(stats.ancestorPromotions))
}

func recordHistory(h *historyProcessor) {
	historyStatesTotal.Add(float64(h.created))

	for reason, count := range h.unresolved {
		historyUnresolvedTotal.WithLabelValues(reason).Add(float64(count))
	}
}
