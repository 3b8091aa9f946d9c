package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectMetric returns the metric of c whose labels include all of labels.
func collectMetric(t *testing.T, c prometheus.Collector, labels map[string]string) *dto.Metric {
	t.Helper()
	ch := make(chan prometheus.Metric, 100)
	c.Collect(ch)
	close(ch)

	for m := range ch {
		d := &dto.Metric{}
		if err := m.Write(d); err != nil {
			continue
		}
		match := true
		for k, v := range labels {
			found := false
			for _, lp := range d.GetLabel() {
				if lp.GetName() == k && lp.GetValue() == v {
					found = true
					break
				}
			}
			if !found {
				match = false
				break
			}
		}
		if match {
			return d
		}
	}
	return nil
}

func setupMetricsApp(t *testing.T) (*fiber.App, *Metrics) {
	t.Helper()
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	app := fiber.New()
	app.Use(m.Handler())
	app.Get("/api/blog/:slug", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"slug": c.Params("slug")})
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	return app, m
}

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	app, m := setupMetricsApp(t)

	for _, slug := range []string{"one", "two"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/blog/"+slug, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	metric := collectMetric(t, m.requests, map[string]string{
		"method": "GET", "path": "/api/blog/:slug", "status": "200",
	})
	require.NotNil(t, metric)
	assert.Equal(t, float64(2), metric.GetCounter().GetValue())

	hist := collectMetric(t, m.duration, map[string]string{"path": "/api/blog/:slug"})
	require.NotNil(t, hist)
	assert.Equal(t, uint64(2), hist.GetHistogram().GetSampleCount())

	gauge := collectMetric(t, m.inFlight, nil)
	require.NotNil(t, gauge)
	assert.Equal(t, float64(0), gauge.GetGauge().GetValue())
}

func TestMetrics_RecordsErrorStatus(t *testing.T) {
	app, m := setupMetricsApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	metric := collectMetric(t, m.requests, map[string]string{"path": "/boom", "status": "418"})
	require.NotNil(t, metric)
	assert.Equal(t, float64(1), metric.GetCounter().GetValue())
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}
