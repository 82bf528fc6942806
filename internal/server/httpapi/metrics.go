package httpapi

import "github.com/prometheus/client_golang/prometheus"

var (
	submissionsTotal prometheus.Counter
	transitionsTotal *prometheus.CounterVec
	gatewayFailures  prometheus.Counter
)

func init() {
	submissionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reviewd_submissions_total",
		Help: "Total number of papers submitted.",
	})
	transitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewd_transitions_total",
		Help: "Total number of successful lifecycle transitions.",
	}, []string{"event"})
	gatewayFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reviewd_gateway_failures_total",
		Help: "Total number of failed calls to external gateways.",
	})
	prometheus.MustRegister(submissionsTotal, transitionsTotal, gatewayFailures)
}
