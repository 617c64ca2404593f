package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "restaurant"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	OrdersPlaced        prometheus.Counter
	OrdersSettled       prometheus.Counter
	SettlementConflicts prometheus.Counter
	StatusChanges       prometheus.Counter

	BlobOps         *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
	StatsFailures   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "orders_placed_total",
			Help: "Orders committed by the placement workflow.",
		}),
		OrdersSettled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "orders_settled_total",
			Help: "Orders marked paid and archived to history.",
		}),
		SettlementConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "settlement_conflicts_total",
			Help: "Settlement attempts rejected because the order was already paid.",
		}),
		StatusChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "order_status_changes_total",
			Help: "Admin order status updates.",
		}),
		BlobOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "blob_operations_total",
			Help: "Blob store calls by operation and result.",
		}, []string{"op", "result"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_published_total",
			Help: "Order events handed to the broker by type and result.",
		}, []string{"type", "result"}),
		StatsFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "dashboard_aggregate_failures_total",
			Help: "Dashboard aggregates that failed and were reported as zero.",
		}, []string{"aggregate"}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests, m.HTTPDuration,
		m.OrdersPlaced, m.OrdersSettled, m.SettlementConflicts, m.StatusChanges,
		m.BlobOps, m.EventsPublished, m.StatsFailures,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Result labels an outcome for the *_total vectors.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
