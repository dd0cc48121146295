// Package metrics defines the Prometheus collectors exposed on the admin
// endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WorkloadsIndexed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "policy_controller_workloads_indexed",
		Help: "Number of workloads currently held in the policy index",
	})

	PoliciesIndexed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "policy_controller_policies_indexed",
		Help: "Number of policy objects currently held in the policy index",
	})

	GrpcRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "policy_controller_grpc_requests_total",
		Help: "Total gRPC requests served by the policy query API",
	}, []string{"method", "code"})

	GrpcRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "policy_controller_grpc_request_duration_seconds",
		Help:    "Latency of policy query API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	AdmissionReviewsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "policy_controller_admission_reviews_total",
		Help: "Total admission reviews handled by the mutating webhook",
	}, []string{"operation", "allowed"})
)

func init() {
	prometheus.MustRegister(WorkloadsIndexed)
	prometheus.MustRegister(PoliciesIndexed)
	prometheus.MustRegister(GrpcRequestsTotal)
	prometheus.MustRegister(GrpcRequestDuration)
	prometheus.MustRegister(AdmissionReviewsTotal)
}

// Handler returns the Prometheus HTTP handler mounted at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
