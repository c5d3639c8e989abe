package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SettingsUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "park_settings_updates_total",
			Help: "Total number of park settings updates",
		},
	)

	GalleryUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "park_gallery_uploads_total",
			Help: "Total number of gallery uploads by file type",
		},
		[]string{"file_type"},
	)

	AdminLoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "park_admin_logins_total",
			Help: "Total number of admin login attempts by result",
		},
		[]string{"result"},
	)

	RealtimeSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "park_realtime_subscribers",
			Help: "Current number of realtime subscribers",
		},
	)
)
