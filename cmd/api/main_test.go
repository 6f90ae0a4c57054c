package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tabgate/internal/config"
	handlers "tabgate/internal/http/handler"
	"tabgate/internal/http/middleware"
	serviceMocks "tabgate/internal/service/mocks"
)

func testApp(t *testing.T, cfg *config.AppConfig, training *serviceMocks.MockTrainingService) (*fiber.App, *bytes.Buffer) {
	t.Helper()

	reg := prometheus.NewRegistry()
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))

	app := newApp(cfg, log, reg, httpMetrics, handlers.Dependencies{
		Uploads:  new(serviceMocks.MockUploadService),
		Analysis: new(serviceMocks.MockAnalysisService),
		Cleaning: new(serviceMocks.MockCleaningService),
		Training: training,
	})
	return app, &logs
}

func TestNewApp_HealthAndMetrics(t *testing.T) {
	app, logs := testApp(t, &config.AppConfig{Upload: config.UploadConfig{MaxBytes: 1024}}, new(serviceMocks.MockTrainingService))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	assert.Contains(t, logs.String(), `"path":"/api/health"`)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), `http_requests_total{method="GET",path="/api/health",status="200"} 1`)
}

func TestNewApp_UnknownRoute(t *testing.T) {
	app, logs := testApp(t, &config.AppConfig{Upload: config.UploadConfig{MaxBytes: 1024}}, new(serviceMocks.MockTrainingService))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["request_id"])
	assert.Contains(t, logs.String(), `"status":404`)
}

func TestNewApp_PanicIsRecovered(t *testing.T) {
	training := new(serviceMocks.MockTrainingService)
	training.On("Train", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("engine client exploded")
	})
	app, _ := testApp(t, &config.AppConfig{Env: "production", Upload: config.UploadConfig{MaxBytes: 1024}}, training)

	req := httptest.NewRequest(http.MethodPost, "/api/train",
		strings.NewReader(`{"filepath":"a.csv","modelType":"svm","features":["x"],"target":"y"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.NotContains(t, body, "details")
}
