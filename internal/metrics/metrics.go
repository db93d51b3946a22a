package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eduappbot",
			Name:      "eduapp_requests_total",
			Help:      "Requests to the EduApp API by endpoint and status code.",
		},
		[]string{"endpoint", "status"},
	)

	authAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eduappbot",
			Name:      "auth_attempts_total",
			Help:      "EduApp login attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, authAttempts)
	})
}

// IncAPI counts an EduApp request. status 0 means the request never got a response.
func IncAPI(endpoint string, status int) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	apiRequests.WithLabelValues(endpoint, label).Inc()
}

// IncAuth counts a login outcome (succeeded, failed, relogin).
func IncAuth(outcome string) {
	authAttempts.WithLabelValues(outcome).Inc()
}
