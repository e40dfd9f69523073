package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reproEventsAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repro_events_appended_total",
			Help: "Reproductive events appended, by event type",
		},
		[]string{"type"},
	)

	selectionDecisionsSet = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selection_decisions_set_total",
			Help: "Selection decisions written, by decision",
		},
		[]string{"decision"},
	)

	summaryCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genetics_summary_cache_lookups_total",
			Help: "Genetics summary cache lookups, by result (hit, miss)",
		},
		[]string{"result"},
	)

	summaryBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "genetics_summary_build_seconds",
			Help:    "Time spent computing a genetics summary from the event log",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)
)
