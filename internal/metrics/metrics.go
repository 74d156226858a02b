package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_checkins_total",
			Help: "Total number of check-in attempts",
		},
		[]string{"result"},
	)

	GymOccupancy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gymdesk_gym_occupancy",
			Help: "Members currently checked in per gym",
		},
		[]string{"gym_id"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymdesk_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	BulkStatusUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_bulk_status_updates_total",
			Help: "Members affected by bulk status changes",
		},
		[]string{"status"},
	)

	BroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_broadcasts_total",
			Help: "Bulk email broadcasts by outcome bucket",
		},
		[]string{"bucket"},
	)

	MembersRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_members_registered_total",
			Help: "Total number of members registered",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCheckIn(result string) {
	CheckInsTotal.WithLabelValues(result).Inc()
}

func SetGymOccupancy(gymID string, count int) {
	GymOccupancy.WithLabelValues(gymID).Set(float64(count))
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordBulkStatusUpdate(status string, count int) {
	BulkStatusUpdatesTotal.WithLabelValues(status).Add(float64(count))
}

func RecordBroadcast(bucket string, count int) {
	BroadcastsTotal.WithLabelValues(bucket).Add(float64(count))
}

func RecordMemberRegistered() {
	MembersRegisteredTotal.Inc()
}
