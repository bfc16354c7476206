package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/synergo-api/internal/models"
)

type fakeStatisticsService struct {
	stats    *models.Statistics
	cacheHit bool
	err      error
}

func (f *fakeStatisticsService) Get(context.Context) (*models.Statistics, bool, error) {
	return f.stats, f.cacheHit, f.err
}

func TestStatisticsHandlerGet(t *testing.T) {
	svc := &fakeStatisticsService{stats: &models.Statistics{TotalMedia: 3, TotalVideos: 2, TotalPhotos: 1}}
	h := NewStatisticsHandler(svc)
	router := newTestRouter(func(r *gin.Engine) { r.GET("/statistics", h.Get) })

	w := serve(router, http.MethodGet, "/statistics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Contains(t, string(env.Data), `"total_media":3`)
	assert.Equal(t, false, env.Meta["cache_hit"])
	assert.Contains(t, env.Meta, "processing_time_ms")

	svc.cacheHit = true
	env = decodeEnvelope(t, serve(router, http.MethodGet, "/statistics", nil))
	assert.Equal(t, true, env.Meta["cache_hit"])
	assert.GreaterOrEqual(t, env.Meta["processing_time_ms"], float64(0))

	svc.err = errors.New("boom")
	assert.Equal(t, http.StatusInternalServerError, serve(router, http.MethodGet, "/statistics", nil).Code)
}
