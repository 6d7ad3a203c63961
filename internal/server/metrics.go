package server

import "github.com/prometheus/client_golang/prometheus"

const namespace = "storefront"

// StoreMetrics are the storefront's domain metrics.
type StoreMetrics struct {
	ActiveSessions prometheus.Gauge
	OrdersPlaced   prometheus.Counter
	QueryResults   prometheus.Histogram
}

func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions held in memory",
		}),
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Completed checkouts",
		}),
		QueryResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_query_results",
			Help:      "Products returned per catalog query",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
	}

	reg.MustRegister(m.ActiveSessions, m.OrdersPlaced, m.QueryResults)
	return m
}

func (m *StoreMetrics) SetActiveSessions(n int) { m.ActiveSessions.Set(float64(n)) }

func (m *StoreMetrics) ObserveQuery(n int) { m.QueryResults.Observe(float64(n)) }
