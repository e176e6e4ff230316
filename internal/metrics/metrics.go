package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fuelprices"

var (
	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_total",
		Help:      "Feed refresh attempts by result.",
	}, []string{"result"}) // success|failure

	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "refresh_duration_seconds",
		Help:      "Duration of a full download, extract and parse cycle.",
		Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
	})

	Stations = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stations",
		Help:      "Number of stations in the current snapshot.",
	})

	LastRefresh = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_refresh_timestamp_seconds",
		Help:      "Unix time of the last successful refresh.",
	})

	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Search cache lookups by result.",
	}, []string{"result"}) // hit|miss

	CacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_evictions_total",
		Help:      "Expired cache entries removed by the background sweep.",
	})
)
