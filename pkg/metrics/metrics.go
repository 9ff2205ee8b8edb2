// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the service exports.
type Metrics struct {
	service string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec
	DBOpenConns     *prometheus.GaugeVec
	DBIdleConns     *prometheus.GaugeVec

	SweeperExpiredTotal  *prometheus.CounterVec
	SweeperLostRaceTotal *prometheus.CounterVec
	SlotLostTotal        *prometheus.CounterVec
	OutboxPublishedTotal *prometheus.CounterVec
}

// New registers all collectors on the default registry.
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry registers all collectors on the given registry.
// Tests pass a fresh registry to avoid duplicate registration.
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		service: serviceName,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route, method and status code",
		}, []string{"service", "route", "method", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and method",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "route", "method"}),

		DBQueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total database queries by operation and status",
		}, []string{"service", "operation", "status"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency by operation",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation"}),

		DBOpenConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_open",
			Help: "Open connections in the database pool",
		}, []string{"service"}),

		DBIdleConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Idle connections in the database pool",
		}, []string{"service"}),

		SweeperExpiredTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sweeper_expired_holds_total",
			Help: "Holds reclaimed by the expiration sweeper",
		}, []string{"service"}),

		SweeperLostRaceTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sweeper_lost_races_total",
			Help: "Sweep attempts that lost the row to a concurrent transition",
		}, []string{"service"}),

		SlotLostTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_slot_lost_total",
			Help: "Confirmed payments that lost their slot and need manual refund",
		}, []string{"service"}),

		OutboxPublishedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "outbox_events_published_total",
			Help: "Booking events handed to the notification relay",
		}, []string{"service"}),
	}
}

// Service returns the label this instance registers under.
func (m *Metrics) Service() string {
	return m.service
}
