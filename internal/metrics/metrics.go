package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailpipe_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mailpipe_http_request_duration_seconds",
			Help:    "Histogram of response durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	EmailsEnqueued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mailpipe_emails_enqueued_total",
			Help: "Number of send requests accepted and published",
		},
	)

	// EmailsProcessed counts worker outcomes per terminal status
	EmailsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mailpipe_emails_processed_total",
			Help: "Number of consumed messages by outcome",
		},
		[]string{"status"},
	)

	DeliveryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mailpipe_email_delivery_duration_seconds",
			Help:    "Duration of delivery attempts",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
)

func Init() {
	prometheus.MustRegister(HTTPRequests, RequestDuration, EmailsEnqueued, EmailsProcessed, DeliveryDuration)
}
