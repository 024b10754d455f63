package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// reporting service.
type Metrics struct {
	ReportBuilds        prometheus.Counter
	ReportBuildDuration prometheus.Histogram

	// Snapshot loading metrics.
	SnapshotLoads        *prometheus.CounterVec // labels: result={hit,miss}
	SnapshotDecodeErrors *prometheus.CounterVec // labels: file
	SnapshotAgeSeconds   prometheus.Gauge

	// Normalization metrics.
	RecordsSeen     *prometheus.CounterVec // labels: feed={vehicle,incidents,observations}
	RecordsKept     *prometheus.CounterVec // labels: feed={vehicle,incidents,observations}
	ChecklistAudits prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ReportBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safety_report",
			Name:      "builds_total",
			Help:      "Total division reports assembled.",
		}),
		ReportBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "safety_report",
			Name:      "build_duration_seconds",
			Help:      "Duration of a complete load-normalize-aggregate cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		SnapshotLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safety_report",
			Name:      "snapshot_loads_total",
			Help:      "Snapshot cache lookups by result.",
		}, []string{"result"}),
		SnapshotDecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safety_report",
			Name:      "snapshot_decode_errors_total",
			Help:      "Snapshot files that failed to decode, by file name.",
		}, []string{"file"}),
		SnapshotAgeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "safety_report",
			Name:      "snapshot_age_seconds",
			Help:      "Age of the cached snapshot at the last report build.",
		}),
		RecordsSeen: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safety_report",
			Name:      "records_seen_total",
			Help:      "Raw records decoded from the snapshots, by feed.",
		}, []string{"feed"}),
		RecordsKept: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safety_report",
			Name:      "records_kept_total",
			Help:      "Records surviving the division filter, by feed.",
		}, []string{"feed"}),
		ChecklistAudits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safety_report",
			Name:      "checklist_audits_total",
			Help:      "Checklist audits scored across report builds.",
		}),
	}

	prometheus.MustRegister(
		m.ReportBuilds,
		m.ReportBuildDuration,
		m.SnapshotLoads,
		m.SnapshotDecodeErrors,
		m.SnapshotAgeSeconds,
		m.RecordsSeen,
		m.RecordsKept,
		m.ChecklistAudits,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ReportBuilds:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "safety_report", Name: "builds_total"}),
		ReportBuildDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "safety_report", Name: "build_duration_seconds"}),
		SnapshotLoads:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "safety_report", Name: "snapshot_loads_total"}, []string{"result"}),
		SnapshotDecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "safety_report", Name: "snapshot_decode_errors_total"}, []string{"file"}),
		SnapshotAgeSeconds:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "safety_report", Name: "snapshot_age_seconds"}),
		RecordsSeen:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "safety_report", Name: "records_seen_total"}, []string{"feed"}),
		RecordsKept:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "safety_report", Name: "records_kept_total"}, []string{"feed"}),
		ChecklistAudits:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "safety_report", Name: "checklist_audits_total"}),
	}
}
