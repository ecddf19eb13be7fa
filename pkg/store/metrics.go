package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks identity cache hits.
	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_store_cache_hits_total",
			Help: "Total number of identity cache hits",
		},
	)

	// cacheMisses tracks identity cache misses.
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_store_cache_misses_total",
			Help: "Total number of identity cache misses",
		},
	)

	// collectionSize tracks the size of the fetched collection snapshot.
	collectionSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipe_store_collection_size",
			Help: "Number of records in the collection snapshot",
		},
	)

	// fetchFailures tracks failed collection and record fetches.
	fetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_store_fetch_failures_total",
			Help: "Total number of failed fetches by operation",
		},
		[]string{"operation"}, // "collection", "record"
	)
)
