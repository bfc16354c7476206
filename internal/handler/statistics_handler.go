package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/synergo-api/internal/models"
	"github.com/noah-isme/synergo-api/pkg/response"
)

type statisticsService interface {
	Get(ctx context.Context) (*models.Statistics, bool, error)
}

// StatisticsHandler exposes catalogue statistics.
type StatisticsHandler struct {
	service statisticsService
}

// NewStatisticsHandler constructs the handler.
func NewStatisticsHandler(service statisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: service}
}

// Get godoc
// @Summary Catalogue and vocabulary statistics
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /statistics [get]
func (h *StatisticsHandler) Get(c *gin.Context) {
	stats, cacheHit, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, stats, nil, cacheHit)
}
