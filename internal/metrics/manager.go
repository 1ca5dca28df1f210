// ABOUTME: Prometheus metrics for plan generation, record tracking, and HTTP requests.
// ABOUTME: Collectors register on the Registerer passed to NewManager.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "trainer"
	Subsystem = "coach"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterPlansGenerated     *prometheus.CounterVec
	CounterRecordChecks       *prometheus.CounterVec
	CounterNewRecords         *prometheus.CounterVec
	CounterHandleRequestPanic prometheus.Counter

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
	HistPlanExercises   prometheus.Histogram
}

// SetupPrometheus returns a registry carrying build info, Go runtime, and
// process collectors.
func SetupPrometheus() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func NewTestManager() *Manager {
	return NewManager(Namespace, "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager(Namespace, "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		CounterPlansGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "plans_generated",
			Help:      "The total number of generated workout plans by goal",
		}, []string{"goal"}),
		CounterRecordChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "record_checks",
			Help:      "The total number of performance entries checked against records",
		}, []string{"metric"}),
		CounterNewRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "new_records",
			Help:      "The total number of new personal records",
		}, []string{"metric"}),
		CounterHandleRequestPanic: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "handle_request_panic",
			Help:      "The total number of serve request panics",
		}),
		GaugeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_requests",
			Help:      "Current number of requests served",
		}),
		HistRequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Total duration of requests in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		HistPlanExercises: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "plan_exercises",
			Help:      "Number of exercises in generated plans",
			Buckets:   prometheus.LinearBuckets(1, 2, 8),
		}),
	}
}
