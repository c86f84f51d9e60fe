package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultApplied = "applied"
	resultSkipped = "skipped"
	resultFailed  = "failed"
)

var adjustmentCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ledger_adjustments_total",
		Help: "How many budget spent amount adjustments were processed, partitioned by result.",
	},
	[]string{"result"},
)

var recomputeCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ledger_recomputations_total",
		Help: "How many budget spent amounts were recomputed, partitioned by whether they had drifted.",
	},
	[]string{"drifted"},
)

// Collectors returns the Prometheus collectors of the ledger so that they
// can be registered together with the HTTP metrics.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		adjustmentCount,
		recomputeCount,
	}
}
