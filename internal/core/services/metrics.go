package services

import "github.com/prometheus/client_golang/prometheus"

var (
	trackerMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kanso_tracker_mutations_total",
			Help: "Tracker mutations by operation and outcome",
		},
		[]string{"op", "outcome"},
	)
)

// Collectors returns the service level metrics for registration by main.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{trackerMutations}
}

func observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	trackerMutations.WithLabelValues(op, outcome).Inc()
}
