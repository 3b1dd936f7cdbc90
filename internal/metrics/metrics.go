package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trustcheck"

// Inspection kinds.
const (
	KindDNSSEC = "dnssec"
	KindSSL    = "ssl"
)

// Recorder collects inspection and cache statistics on its own registry.
type Recorder struct {
	reg         *prometheus.Registry
	inspections *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		inspections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inspections_total",
			Help:      "Number of inspections by kind and outcome",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inspection_duration_seconds",
			Help:      "Inspection latency by kind",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hit_total",
			Help:      "Number of results served from cache",
		}, []string{"kind"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_miss_total",
			Help:      "Number of results not found in cache",
		}, []string{"kind"}),
	}

	r.reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
		r.inspections,
		r.duration,
		r.cacheHits,
		r.cacheMisses,
	)

	return r
}

// ObserveInspection records one finished inspection. outcome is a short label
// such as "secure", "https" or "error".
func (r *Recorder) ObserveInspection(kind, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.inspections.WithLabelValues(kind, outcome).Inc()
	r.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (r *Recorder) CacheHit(kind string) {
	if r == nil {
		return
	}
	r.cacheHits.WithLabelValues(kind).Inc()
}

func (r *Recorder) CacheMiss(kind string) {
	if r == nil {
		return
	}
	r.cacheMisses.WithLabelValues(kind).Inc()
}

// Registry exposes the underlying registry for tests and extra collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(r.reg, promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}))
}
