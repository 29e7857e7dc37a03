package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks package-generation outcomes for the /metrics endpoint.
type Metrics struct {
	runsTotal   *prometheus.CounterVec
	filesSaved  prometheus.Counter
	runDuration prometheus.Histogram
}

// NewMetrics registers the pipeline metrics on the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "facturador_runs_total",
			Help: "Package generation runs by outcome.",
		}, []string{"status"}),
		filesSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "facturador_files_saved_total",
			Help: "Attachment files written across all runs.",
		}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "facturador_run_duration_seconds",
			Help:    "Duration of package generation runs.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveRun records one run's duration and outcome.
func (m *Metrics) ObserveRun(d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.runsTotal.WithLabelValues(status).Inc()
	m.runDuration.Observe(d.Seconds())
}

// AddFilesSaved accumulates the files written by a successful run.
func (m *Metrics) AddFilesSaved(n int) {
	m.filesSaved.Add(float64(n))
}
