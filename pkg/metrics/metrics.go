package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fitness"

// Manager owns every collector the service exports. A nil *Manager is valid
// and records nothing.
type Manager struct {
	registry *prometheus.Registry

	CounterReps  *prometheus.CounterVec
	CounterPoses *prometheus.CounterVec

	GaugeLiveSessions prometheus.Gauge

	HistLLMRequest *prometheus.HistogramVec
}

func NewManager() *Manager {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newManager(reg)
}

// NewTestManager skips the runtime collectors.
func NewTestManager() *Manager {
	return newManager(prometheus.NewRegistry())
}

func newManager(reg *prometheus.Registry) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		registry: reg,
		CounterReps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reps_counted_total",
			Help:      "Repetitions counted by the exercise trackers",
		}, []string{"exercise", "side"}),
		CounterPoses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poses_processed_total",
			Help:      "Pose frames handed to live sessions by outcome",
		}, []string{"exercise", "outcome"}),
		GaugeLiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_sessions",
			Help:      "Workout sessions currently held in memory",
		}),
		HistLLMRequest: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_seconds",
			Help:      "Latency of diet plan generation requests",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		}, []string{"provider"}),
	}
}

func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Manager) RepsCounted(exercise, side string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CounterReps.WithLabelValues(exercise, side).Add(float64(n))
}

func (m *Manager) PoseProcessed(exercise, outcome string) {
	if m == nil {
		return
	}
	m.CounterPoses.WithLabelValues(exercise, outcome).Inc()
}

func (m *Manager) SessionOpened() {
	if m == nil {
		return
	}
	m.GaugeLiveSessions.Inc()
}

func (m *Manager) SessionClosed() {
	if m == nil {
		return
	}
	m.GaugeLiveSessions.Dec()
}

func (m *Manager) ObserveLLM(provider string, started time.Time) {
	if m == nil {
		return
	}
	m.HistLLMRequest.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}
