package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"FitnessGolang/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Records(t *testing.T) {
	m := metrics.NewTestManager()

	m.RepsCounted("SQUAT", "left", 1)
	m.RepsCounted("SQUAT", "left", 2)
	m.RepsCounted("SQUAT", "right", 0)
	m.PoseProcessed("SQUAT", "no_pose")
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	m.ObserveLLM("openai", time.Now().Add(-time.Second))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.CounterReps.WithLabelValues("SQUAT", "left")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CounterReps.WithLabelValues("SQUAT", "right")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterPoses.WithLabelValues("SQUAT", "no_pose")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GaugeLiveSessions))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HistLLMRequest))
}

func TestManager_NilIsNoop(t *testing.T) {
	var m *metrics.Manager
	assert.NotPanics(t, func() {
		m.RepsCounted("SQUAT", "left", 1)
		m.PoseProcessed("SQUAT", "counted")
		m.SessionOpened()
		m.SessionClosed()
		m.ObserveLLM("gemini", time.Now())
	})
}

func TestManager_Handler(t *testing.T) {
	m := metrics.NewTestManager()
	m.RepsCounted("BICEP_CURL", "right", 1)

	app := fiber.New()
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `fitness_reps_counted_total{exercise="BICEP_CURL",side="right"} 1`))
}
