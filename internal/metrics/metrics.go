package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vedacode_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vedacode_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Signaling metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vedacode_ws_connections_active",
			Help: "Currently open websocket connections",
		},
	)

	RoomsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vedacode_rooms_active",
			Help: "Rooms with at least one member",
		},
	)

	JoinsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vedacode_room_joins_total",
			Help: "Total successful room joins",
		},
	)

	FramesRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vedacode_frames_relayed_total",
			Help: "Signaling frames relayed to room members",
		},
		[]string{"event"},
	)

	FramesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vedacode_frames_dropped_total",
			Help: "Frames dropped instead of relayed",
		},
		[]string{"reason"}, // "no-room", "not-member", "slow-recipient", "gone"
	)

	// Chat-completion metrics
	BotReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vedacode_bot_replies_total",
			Help: "Bot replies broadcast to rooms",
		},
		[]string{"status"}, // "ok" or "error"
	)

	BotLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vedacode_bot_latency_seconds",
			Help:    "Chat-completion round-trip latency",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
	)
)
