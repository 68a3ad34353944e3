// Package metrics holds the Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DatasetGenerations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "der_dataset_generations_total",
		Help: "Number of synthetic datasets generated.",
	})

	GenerationSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "der_generation_duration_seconds",
		Help: "Wall time of the most recent dataset generation.",
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "der_snapshot_cache_hits_total",
		Help: "Snapshot cache lookups served from memory.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "der_snapshot_cache_misses_total",
		Help: "Snapshot cache lookups that triggered a generation.",
	})

	CacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "der_snapshot_cache_entries",
		Help: "Number of cached dataset snapshots.",
	})

	FleetDevices = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "der_fleet_devices",
		Help: "Distinct devices in the latest snapshot, by collection.",
	}, []string{"collection"})

	ConstrainedFeeders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "der_constrained_feeders",
		Help: "Feeders loaded above the default constraint threshold in the latest snapshot.",
	})

	FeederCapacityMVA = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "der_feeder_capacity_mva",
		Help: "Total feeder capacity in the latest snapshot.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "der_http_requests_total",
		Help: "API requests served, by endpoint and status code.",
	}, []string{"endpoint", "status"})

	PublishedReadings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "der_published_readings_total",
		Help: "Telemetry readings delivered to downstream sinks.",
	}, []string{"sink"})
)
