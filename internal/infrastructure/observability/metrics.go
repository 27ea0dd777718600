package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	RequestsTotalName   = "http_requests_total"
	RequestDurationName = "http_request_duration_seconds"

	LabelMethod     = "method"
	LabelRoute      = "route"
	LabelStatusCode = "status_code"
)

// DurationBuckets are the upper bounds, in seconds, of the request duration histogram.
var DurationBuckets = []float64{0.1, 0.5, 1, 2.5, 5, 10}

// RequestRecorder records one completed HTTP request.
type RequestRecorder interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Registry owns the Prometheus collectors exposed by the server.
type Registry struct {
	reg             *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	labels := []string{LabelMethod, LabelRoute, LabelStatusCode}

	r := &Registry{
		reg: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: RequestsTotalName,
				Help: "Total number of HTTP requests",
			},
			labels,
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    RequestDurationName,
				Help:    "Duration of HTTP requests in seconds",
				Buckets: DurationBuckets,
			},
			labels,
		),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.requestsTotal,
		r.requestDuration,
	)
	return r
}

func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	r.requestsTotal.WithLabelValues(method, route, code).Inc()
	r.requestDuration.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
