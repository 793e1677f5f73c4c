package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Account counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lautan_register_total",
			Help: "Total number of user registrations",
		},
	)

	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lautan_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Checkout counter by outcome
	CheckoutCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lautan_checkout_total",
			Help: "Total number of checkout attempts",
		},
		[]string{"result"}, // result can be "ok", "empty_cart", "out_of_stock", "error"
	)

	// Order status transition counter
	OrderTransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lautan_order_transitions_total",
			Help: "Total number of order status transitions",
		},
		[]string{"from", "to"},
	)

	// Payment counter by method and status
	PaymentCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lautan_payments_total",
			Help: "Total number of payment operations",
		},
		[]string{"method", "status"},
	)

	// Review and seller rating counter
	RatingCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lautan_ratings_total",
			Help: "Total number of reviews and seller ratings submitted",
		},
		[]string{"kind"}, // kind can be "produk" or "penjual"
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lautan_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	ErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lautan_errors_total",
			Help: "Total number of application errors",
		},
		[]string{"type"}, // type can be "login_failure", "invalid_token", "db_error" etc.
	)
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lautan_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lautan_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lautan_info",
			Help: "Information about the marketplace service",
		},
		[]string{"version"},
	)

	// Open orders (menunggu through dikirim)
	OpenOrdersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "lautan_open_orders",
			Help: "Number of orders currently in an open status",
		},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(CheckoutCounter)
	prometheus.MustRegister(OrderTransitionCounter)
	prometheus.MustRegister(PaymentCounter)
	prometheus.MustRegister(RatingCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(ErrorCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(InfoGauge)
	prometheus.MustRegister(OpenOrdersGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// RecordCheckout counts a checkout attempt by outcome
func RecordCheckout(result string) {
	CheckoutCounter.With(prometheus.Labels{"result": result}).Inc()
}

// RecordTransition counts an order status transition
func RecordTransition(from, to string) {
	OrderTransitionCounter.With(prometheus.Labels{"from": from, "to": to}).Inc()
}

// RecordPayment counts a payment operation
func RecordPayment(method, status string) {
	PaymentCounter.With(prometheus.Labels{"method": method, "status": status}).Inc()
}

// RecordRating counts a submitted review or seller rating
func RecordRating(kind string) {
	RatingCounter.With(prometheus.Labels{"kind": kind}).Inc()
}

// RecordError counts an application error by type
func RecordError(errorType string) {
	ErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}
