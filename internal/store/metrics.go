package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lostmate",
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Mutations applied to the item collection, by operation.",
		},
		[]string{"op"},
	)

	persistWritesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lostmate",
			Subsystem: "store",
			Name:      "persist_writes_total",
			Help:      "Snapshots of the collection written to storage.",
		},
	)

	persistFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lostmate",
			Subsystem: "store",
			Name:      "persist_failures_total",
			Help:      "Snapshot writes that failed. Failures are not retried.",
		},
	)

	collectionSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lostmate",
			Subsystem: "store",
			Name:      "items",
			Help:      "Number of listings currently in the collection.",
		},
	)
)
