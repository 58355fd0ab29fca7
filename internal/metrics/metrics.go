package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_app"

// Recorder collects the app's prometheus metrics. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	requests    *prometheus.CounterVec
	requestDur  *prometheus.HistogramVec
	cacheLookup *prometheus.CounterVec
	upstreamDur *prometheus.HistogramVec
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests served, by method and status code",
			},
			[]string{"method", "status"},
		),
		requestDur: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		cacheLookup: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Weather cache lookups, by result",
			},
			[]string{"result"},
		),
		upstreamDur: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Weather provider call latencies, by provider and outcome",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider", "outcome"},
		),
	}

	reg.MustRegister(r.requests, r.requestDur, r.cacheLookup, r.upstreamDur)

	return r
}

func (r *Recorder) ObserveRequest(method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	r.requestDur.WithLabelValues(method).Observe(d.Seconds())
}

func (r *Recorder) CacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookup.WithLabelValues(result).Inc()
}

// CacheError counts lookups that failed in the cache backend.
func (r *Recorder) CacheError() {
	if r == nil {
		return
	}
	r.cacheLookup.WithLabelValues("error").Inc()
}

func (r *Recorder) ObserveUpstream(provider, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.upstreamDur.WithLabelValues(provider, outcome).Observe(d.Seconds())
}
