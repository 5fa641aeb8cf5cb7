// Package metrics holds Prometheus instruments that are used across the
// application.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_active_sessions",
			Help: "Number of browser sessions currently held in memory.",
		})

	SessionEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_session_evict_total",
			Help: "Cumulative number of idle sessions evicted.",
		})

	RecordWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_record_writes_total",
			Help: "Store writes by operation (insert, update, delete) and result.",
		}, []string{"op", "result"})

	ValidationFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_validation_failures_total",
			Help: "Form commits rejected by validation.",
		})

	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_uploads_total",
			Help: "Cover image writes by result.",
		}, []string{"result"})

	RenderErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_render_errors_total",
			Help: "Template executions that failed.",
		})
)

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Result maps an error to its label value.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

func init() {
	prometheus.MustRegister(
		ActiveSessions,
		SessionEvictTotal,
		RecordWritesTotal,
		ValidationFailuresTotal,
		UploadsTotal,
		RenderErrorsTotal,
	)
}
