package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains the Prometheus metrics of the command loop
type Metrics struct {
	CyclesStarted     prometheus.Counter
	CycleFailures     *prometheus.CounterVec
	CommandsSent      *prometheus.CounterVec
	RecordingSeconds  prometheus.Histogram
	TranscriptionTime prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New creates the metrics and registers them with reg
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CyclesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "voice_actuator_cycles_total",
			Help: "Total number of capture cycles started",
		}),
		CycleFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_actuator_cycle_failures_total",
			Help: "Total number of cycles that ended without dispatching, by failure kind",
		}, []string{"kind"}),
		CommandsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_actuator_commands_sent_total",
			Help: "Total number of commands written to the actuator, by direction",
		}, []string{"direction"}),
		RecordingSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_actuator_recording_duration_seconds",
			Help:    "Duration of captured audio per cycle",
			Buckets: prometheus.LinearBuckets(0.5, 0.5, 10),
		}),
		TranscriptionTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_actuator_transcription_duration_seconds",
			Help:    "Time spent waiting for the transcriber",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		gatherer: reg,
	}
}

func (m *Metrics) CycleStarted() {
	if m == nil {
		return
	}
	m.CyclesStarted.Inc()
}

func (m *Metrics) CycleFailed(kind string) {
	if m == nil {
		return
	}
	m.CycleFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) CommandSent(direction string) {
	if m == nil {
		return
	}
	m.CommandsSent.WithLabelValues(direction).Inc()
}

func (m *Metrics) ObserveRecording(d time.Duration) {
	if m == nil {
		return
	}
	m.RecordingSeconds.Observe(d.Seconds())
}

func (m *Metrics) ObserveTranscription(d time.Duration) {
	if m == nil {
		return
	}
	m.TranscriptionTime.Observe(d.Seconds())
}

// Handler serves the registered metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
