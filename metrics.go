package filesort

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess = "success"
	resultEmpty   = "empty"
	resultError   = "error"

	phasePartition = "partition"
	phaseMerge     = "merge"
)

var (
	sortsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "filesort",
			Subsystem: "sort",
			Name:      "sorts_total",
			Help:      "counter for finished sorts by result",
		}, []string{"result"})
	runsCreatedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "filesort",
			Subsystem: "worker",
			Name:      "runs_created_total",
			Help:      "counter for run files written, by the phase that wrote them",
		}, []string{"phase"})
	mergeStepsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "filesort",
			Subsystem: "worker",
			Name:      "merge_steps_total",
			Help:      "counter for worker merge steps",
		})
	integersSortedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "filesort",
			Subsystem: "sort",
			Name:      "integers_total",
			Help:      "counter for integers written to sorted outputs",
		})
	sortDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "filesort",
			Subsystem: "sort",
			Name:      "duration_seconds",
			Help:      "Bucketed histogram of the wall time of a whole sort",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 20),
		}, []string{"result"})
)

// RegisterMetrics registers metrics.
func RegisterMetrics(registry prometheus.Registerer) {
	registry.MustRegister(sortsCounter)
	registry.MustRegister(runsCreatedCounter)
	registry.MustRegister(mergeStepsCounter)
	registry.MustRegister(integersSortedCounter)
	registry.MustRegister(sortDurationHistogram)
}

// UnregisterMetrics unregisters metrics.
func UnregisterMetrics(registry prometheus.Registerer) {
	registry.Unregister(sortsCounter)
	registry.Unregister(runsCreatedCounter)
	registry.Unregister(mergeStepsCounter)
	registry.Unregister(integersSortedCounter)
	registry.Unregister(sortDurationHistogram)
}
