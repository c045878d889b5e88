package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stringcheck_scan_seconds",
		Help:    "Time spent scanning source files for string usages.",
		Buckets: prometheus.DefBuckets,
	}, []string{"filetype"})

	FilesScanned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stringcheck_files_scanned_total",
		Help: "Total number of source files scanned.",
	}, []string{"filetype"})

	UsagesFound = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stringcheck_usages_total",
		Help: "Distinct string usages found in the last check.",
	})

	DefinitionsFound = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stringcheck_definitions_total",
		Help: "Distinct string definitions (union over languages) in the last check.",
	})

	LanguagesFound = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stringcheck_languages_total",
		Help: "Language packs discovered in the last check.",
	})

	HardMissing = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stringcheck_hard_missing_total",
		Help: "Usages with no definition in any language in the last check.",
	})

	TranslationGaps = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stringcheck_translation_gaps_total",
		Help: "Per-language missing translations in the last check, summed over languages.",
	})

	PossiblyUnused = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stringcheck_possibly_unused_total",
		Help: "Definitions never referenced by a scanned usage in the last check.",
	})

	ChecksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stringcheck_checks_total",
		Help: "Total number of completed reconciliation runs.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stringcheck_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RescansSuppressedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stringcheck_rescans_suppressed_total",
		Help: "Watch-mode rescans suppressed by the rate limiter.",
	})
)
