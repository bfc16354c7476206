package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/synergo-api/internal/service"
)

type pingerStub struct {
	err error
}

func (p pingerStub) PingContext(context.Context) error {
	return p.err
}

func newMetricsRouter(metrics *service.MetricsService, db Pinger) http.Handler {
	h := NewMetricsHandler(metrics, db)
	return newTestRouter(func(r *gin.Engine) {
		r.GET("/health", h.Health)
		r.GET("/ready", h.Ready)
		r.GET("/metrics", h.Prometheus)
		r.GET("/metrics/summary", h.Summary)
	})
}

func TestMetricsHandlerReady(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(newMetricsRouter(nil, pingerStub{}), http.MethodGet, "/ready", nil).Code)
	assert.Equal(t, http.StatusOK, serve(newMetricsRouter(nil, nil), http.MethodGet, "/ready", nil).Code)

	w := serve(newMetricsRouter(nil, pingerStub{err: errors.New("database is locked")}), http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "database is locked")
}

func TestMetricsHandlerHealth(t *testing.T) {
	w := serve(newMetricsRouter(nil, nil), http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsHandlerExposition(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordQuizSession(service.QuizEventStarted)
	router := newMetricsRouter(metrics, nil)

	w := serve(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `quiz_sessions_total{event="started"} 1`)

	w = serve(router, http.MethodGet, "/metrics/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusServiceUnavailable, serve(newMetricsRouter(nil, nil), http.MethodGet, "/metrics", nil).Code)
}
