package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/mediguide-ai/backend/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Sweep metrics

	SweepCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mediguide",
		Name:      "sweep_cycle_duration_seconds",
		Help:      "Time taken for one due-reminder sweep.",
		Buckets:   prometheus.DefBuckets,
	})

	RemindersDue = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mediguide",
		Name:      "reminders_due",
		Help:      "Due unsent reminders found by the most recent sweep.",
	})

	RemindersDeliveredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediguide",
		Name:      "reminders_delivered_total",
		Help:      "Total reminder delivery attempts, by outcome.",
	}, []string{"outcome"})

	SweepsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mediguide",
		Name:      "sweeps_skipped_total",
		Help:      "Sweep ticks skipped because the previous sweep was still running.",
	})

	// OTP metrics

	OTPIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mediguide",
		Name:      "otp_issued_total",
		Help:      "Total one-time codes issued.",
	})

	OTPVerifiedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediguide",
		Name:      "otp_verified_total",
		Help:      "Total verification attempts, by outcome.",
	}, []string{"outcome"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mediguide",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediguide",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		SweepCycleDuration,
		RemindersDue,
		RemindersDeliveredTotal,
		SweepsSkippedTotal,
		OTPIssuedTotal,
		OTPVerifiedTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus the liveness/readiness probes on the
// internal port.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, http.StatusOK, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeHealth(w, status, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, status int, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
