package storage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreInserts tracks snapshot inserts by backend and result
	StoreInserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_store_inserts_total",
			Help: "Total number of snapshot inserts",
		},
		[]string{"backend", "result"}, // "mongo"/"redis", "ok"/"error"
	)

	// StoredEvents tracks the number of events written by the last insert
	StoredEvents = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "snapshot_store_events",
			Help: "Number of events in the last stored snapshot",
		},
		[]string{"backend"},
	)
)
