package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ginjaninja78/order-summarizer/internal/summary"
)

const metricsNamespace = "order_summarizer"

// metrics live on a per-server registry, not the global default.
type metrics struct {
	registry *prometheus.Registry
	files    *prometheus.CounterVec
	rows     *prometheus.CounterVec
	duration prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "files_total",
			Help:      "Uploaded files by outcome (success, unsupported, failed, rejected).",
		}, []string{"status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rows_total",
			Help:      "Summarized data rows by disposition (classified, unclassified, skipped).",
		}, []string{"disposition"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "summarize_duration_seconds",
			Help:      "Time spent loading and summarizing an upload.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(m.files, m.rows, m.duration)
	return m
}

func (m *metrics) observeRows(stats summary.Stats) {
	m.rows.WithLabelValues("classified").Add(float64(stats.ClassifiedRows))
	m.rows.WithLabelValues("unclassified").Add(float64(stats.UnclassifiedRows))
	m.rows.WithLabelValues("skipped").Add(float64(stats.SkippedRows))
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
