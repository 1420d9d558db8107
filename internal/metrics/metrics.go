package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsInspected counts catalog records pulled through a rule's filter.
	RecordsInspected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_records_inspected_total",
			Help: "Total catalog records inspected, by rule.",
		},
		[]string{"rule"},
	)

	// RecordsChanged counts committed per-record updates.
	RecordsChanged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_records_changed_total",
			Help: "Total catalog records changed, by rule.",
		},
		[]string{"rule"},
	)

	// ExportDuration measures full snapshot export duration.
	ExportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_export_duration_seconds",
			Help:    "Duration of a full snapshot export in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms → ~40s
		},
	)

	// ExportedRecords reports the record count of the last export.
	ExportedRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_exported_records",
			Help: "Record count of the most recent snapshot export.",
		},
	)

	// PurgedPriceRows counts closed-market rows removed from price history.
	PurgedPriceRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_purged_price_rows_total",
			Help: "Total closed-market price rows purged.",
		},
	)
)

// ObserveRun records one rule run's inspected/changed counts.
func ObserveRun(rule string, inspected, changed int) {
	RecordsInspected.WithLabelValues(rule).Add(float64(inspected))
	RecordsChanged.WithLabelValues(rule).Add(float64(changed))
}

// ObserveExport records one export's duration and size.
func ObserveExport(start time.Time, records int64) {
	ExportDuration.Observe(time.Since(start).Seconds())
	ExportedRecords.Set(float64(records))
}
