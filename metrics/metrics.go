package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PathsDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ride",
		Subsystem: "geometry",
		Name:      "paths_decoded_total",
		Help:      "Total paths turned into waypoints, by source",
	}, []string{"source"})

	GeometryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ride",
		Subsystem: "geometry",
		Name:      "errors_total",
		Help:      "Total geometry failures, by kind",
	}, []string{"kind"})

	Waypoints = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ride",
		Subsystem: "geometry",
		Name:      "waypoints",
		Help:      "Number of waypoints per decoded path",
		Buckets:   prometheus.ExponentialBuckets(2, 4, 8),
	})

	TracksStored = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ride",
		Subsystem: "tracks",
		Name:      "stored",
		Help:      "Number of tracks currently loaded from the tracks directory",
	})
)
