package obs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics groups Prometheus collectors for HTTP observability.
type HTTPMetrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics registers and returns HTTP metrics collectors.
func NewHTTPMetrics(namespace string, buckets []float64, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if len(buckets) == 0 {
		buckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}
	} else {
		sort.Float64s(buckets)
	}
	m := &HTTPMetrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   buckets,
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
	}
	register(reg, m.ReqTotal, func(c prometheus.Collector) { m.ReqTotal = c.(*prometheus.CounterVec) })
	register(reg, m.ReqDur, func(c prometheus.Collector) { m.ReqDur = c.(*prometheus.HistogramVec) })
	register(reg, m.InFlight, func(c prometheus.Collector) { m.InFlight = c.(prometheus.Gauge) })
	return m
}

// EngineMetrics counts bulk edit previews and bundle quotes.
type EngineMetrics struct {
	BulkPreviews *prometheus.CounterVec
	PreviewSize  prometheus.Histogram
	BundleQuotes *prometheus.CounterVec
}

// NewEngineMetrics registers and returns the bulk edit and bundle collectors.
func NewEngineMetrics(namespace string, reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &EngineMetrics{
		BulkPreviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_preview_total",
			Help:      "Count of bulk edit previews by outcome.",
		}, []string{"domain", "field", "mode", "result"}),
		PreviewSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bulk_preview_entities",
			Help:      "Number of entities per successful bulk edit preview.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		BundleQuotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bundle_quote_total",
			Help:      "Count of bundle price quotes by discount type and validity.",
		}, []string{"discount_type", "result"}),
	}
	register(reg, m.BulkPreviews, func(c prometheus.Collector) { m.BulkPreviews = c.(*prometheus.CounterVec) })
	register(reg, m.PreviewSize, func(c prometheus.Collector) { m.PreviewSize = c.(prometheus.Histogram) })
	register(reg, m.BundleQuotes, func(c prometheus.Collector) { m.BundleQuotes = c.(*prometheus.CounterVec) })
	return m
}

// ObservePreview records one preview outcome. Safe on a nil receiver.
func (m *EngineMetrics) ObservePreview(domain, field, mode, result string, size int) {
	if m == nil {
		return
	}
	m.BulkPreviews.WithLabelValues(domain, field, mode, result).Inc()
	if result == "ok" {
		m.PreviewSize.Observe(float64(size))
	}
}

// ObserveQuote records one bundle quote outcome. Safe on a nil receiver.
func (m *EngineMetrics) ObserveQuote(discountType, result string) {
	if m == nil {
		return
	}
	m.BundleQuotes.WithLabelValues(discountType, result).Inc()
}

// ParseBucketsCSV converts a comma-separated list of bucket boundaries (milliseconds) into floats.
func ParseBucketsCSV(csv string) []float64 {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || v <= 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// DurationMillis converts a duration to milliseconds for metric observation.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// register adds collector to reg, handing an already registered collector of
// the same shape to reuse instead.
func register(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			reuse(are.ExistingCollector)
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
