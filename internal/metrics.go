package internal

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const metricsJob = "notion_backup"

// Metrics collects the gauges of one run for the Pushgateway.
type Metrics struct {
	registry *prometheus.Registry

	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
	tables      *prometheus.GaugeVec
	records     *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notion_backup_duration_seconds",
			Help: "Duration of the last backup run",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notion_backup_last_success_timestamp_seconds",
			Help: "Time the last fully successful backup run finished",
		}),
		tables: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "notion_backup_tables",
			Help: "Tables in the last backup run by status",
		}, []string{"status"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "notion_backup_records",
			Help: "Pages exported per table in the last backup run",
		}, []string{"table"}),
	}
	m.registry.MustRegister(m.duration, m.lastSuccess, m.tables, m.records)
	return m
}

func (m *Metrics) Observe(summary Summary, runErr error) {
	m.duration.Set(summary.Duration.Seconds())
	for _, status := range []TableStatus{StatusSuccess, StatusEmpty, StatusSkipped, StatusFailed} {
		m.tables.WithLabelValues(string(status)).Set(float64(summary.Count(status)))
	}
	for _, t := range summary.Tables {
		if t.Status == StatusSuccess {
			m.records.WithLabelValues(t.Table.Name).Set(float64(t.Records))
		}
	}
	if runErr == nil {
		m.lastSuccess.Set(float64(time.Now().Unix()))
	}
}

func (m *Metrics) Push(url string) error {
	return push.New(url, metricsJob).Gatherer(m.registry).Push()
}
