// Package metrics exports bot metrics in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "careerbot"
	subsystem = "bot"
)

// Recorder is the metrics surface used by the dispatcher.
type Recorder interface {
	RecordMessage(platform, outcome string)
	RecordClassification(intents []string, entityTypes []string, latency time.Duration)
	RecordSendError(platform string)
	IncInFlight()
	DecInFlight()
}

// PrometheusExporter exports message, classification and transport metrics.
type PrometheusExporter struct {
	registry *prometheus.Registry

	messages       *prometheus.CounterVec
	intents        *prometheus.CounterVec
	entities       *prometheus.CounterVec
	classification prometheus.Histogram
	sendErrors     *prometheus.CounterVec
	inFlight       prometheus.Gauge
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for the classification latency histogram (in seconds)
	LatencyBuckets []float64

	// RuntimeCollectors adds the Go runtime and process collectors.
	RuntimeCollectors bool
}

// DefaultConfig returns default Prometheus configuration.
// Classification is pure CPU work, so the buckets start in the microseconds.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets:    []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		RuntimeCollectors: true,
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter.
func NewPrometheusExporter(cfg Config) *PrometheusExporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &PrometheusExporter{registry: registry}

	e.messages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "messages_total",
			Help:      "Total number of handled inbound messages by reply outcome",
		},
		[]string{"platform", "outcome"},
	)

	e.intents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "intents_detected_total",
			Help:      "Total number of detected intents",
		},
		[]string{"intent"},
	)

	e.entities = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "entities_extracted_total",
			Help:      "Total number of messages with at least one entity of a type",
		},
		[]string{"type"},
	)

	e.classification = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "classification_seconds",
			Help:      "Time spent classifying and composing one reply",
			Buckets:   cfg.LatencyBuckets,
		},
	)

	e.sendErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "send_errors_total",
			Help:      "Total number of failed outbound sends",
		},
		[]string{"platform"},
	)

	e.inFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "messages_in_flight",
			Help:      "Number of messages currently being handled",
		},
	)

	registry.MustRegister(
		e.messages,
		e.intents,
		e.entities,
		e.classification,
		e.sendErrors,
		e.inFlight,
	)
	if cfg.RuntimeCollectors {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return e
}

// RecordMessage counts one handled message.
func (e *PrometheusExporter) RecordMessage(platform, outcome string) {
	e.messages.WithLabelValues(platform, outcome).Inc()
}

// RecordClassification records the detection result of one message.
func (e *PrometheusExporter) RecordClassification(intents []string, entityTypes []string, latency time.Duration) {
	for _, in := range intents {
		e.intents.WithLabelValues(in).Inc()
	}
	for _, typ := range entityTypes {
		e.entities.WithLabelValues(typ).Inc()
	}
	e.classification.Observe(latency.Seconds())
}

// RecordSendError counts a failed outbound send.
func (e *PrometheusExporter) RecordSendError(platform string) {
	e.sendErrors.WithLabelValues(platform).Inc()
}

// IncInFlight marks a message as being handled.
func (e *PrometheusExporter) IncInFlight() {
	e.inFlight.Inc()
}

// DecInFlight marks a message as done.
func (e *PrometheusExporter) DecInFlight() {
	e.inFlight.Dec()
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{Registry: e.registry})
}

// Noop discards every metric. Used by one-shot commands.
type Noop struct{}

func (Noop) RecordMessage(string, string) {}

func (Noop) RecordClassification([]string, []string, time.Duration) {}

func (Noop) RecordSendError(string) {}

func (Noop) IncInFlight() {}

func (Noop) DecInFlight() {}

var (
	_ Recorder = (*PrometheusExporter)(nil)
	_ Recorder = Noop{}
)
