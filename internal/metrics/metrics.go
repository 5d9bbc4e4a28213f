package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parley_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parley_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Connection metrics
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "parley_active_connections",
			Help: "Currently open chat connections",
		},
	)

	ConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parley_connections_total",
			Help: "Total chat connections accepted",
		},
	)

	// Room and broadcast metrics
	RoomsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parley_rooms_created_total",
			Help: "Total rooms created",
		},
	)

	EventsBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parley_events_broadcast_total",
			Help: "Total events broadcast to rooms",
		},
		[]string{"type"}, // "UserJoined", "UserLeft", "NewMessage"
	)

	DeliveriesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parley_deliveries_dropped_total",
			Help: "Deliveries dropped because a session send buffer was full",
		},
	)

	// History cache metrics
	RoomHydrations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parley_room_hydrations_total",
			Help: "Room caches hydrated from the history store",
		},
	)

	HydrateFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parley_hydrate_failures_total",
			Help: "Failed history store reads during cache hydration",
		},
	)

	// Persistence metrics
	EventsPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parley_events_persisted_total",
			Help: "Events durably appended to the history store",
		},
	)

	PersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parley_persist_failures_total",
			Help: "Failed history store appends",
		},
	)

	PersistQueueDrops = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parley_persist_queue_drops_total",
			Help: "Events dropped because the persistence queue was full",
		},
	)
)
