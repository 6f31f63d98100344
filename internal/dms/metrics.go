package dms

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dms_exports_total",
			Help: "Completed export passes, by outcome",
		},
		[]string{"outcome"},
	)

	exportFileFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dms_export_file_failures_total",
			Help: "Per-file export failures",
		},
		[]string{"file"},
	)

	scansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dms_scans_total",
			Help: "Completed scan passes, by mode",
		},
		[]string{"mode"},
	)

	driftRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dms_drift_records_total",
			Help: "Drifted records found by scans, by file and kind",
		},
		[]string{"file", "kind"},
	)

	conflictsResolvedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dms_conflicts_resolved_total",
			Help: "Conflicts overridden by the storage-wins policy during repair",
		},
	)
)
