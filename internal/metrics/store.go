package metrics

import "github.com/prometheus/client_golang/prometheus"

// Document store Prometheus metrics.
var (
	StoreOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vetdir",
			Name:      "store_operations_total",
			Help:      "Total document store operations",
		},
		[]string{"driver", "op", "status"},
	)

	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vetdir",
			Name:      "store_operation_duration_seconds",
			Help:      "Document store operation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"driver", "op"},
	)

	StoreAvailable = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vetdir",
			Name:      "store_available",
			Help:      "1 when the document store handle is initialized, 0 otherwise",
		},
	)
)

// RegisterStoreMetrics registers store metrics with the default registry.
func RegisterStoreMetrics() {
	prometheus.MustRegister(
		StoreOperationsTotal,
		StoreOperationDuration,
		StoreAvailable,
	)
}
