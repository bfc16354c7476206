package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/synergo-api/internal/dto"
	"github.com/noah-isme/synergo-api/internal/models"
	"github.com/noah-isme/synergo-api/pkg/response"
)

type worklistService interface {
	List(ctx context.Context, kind models.WorklistKind) ([]models.WorklistItem, error)
	Add(ctx context.Context, kind models.WorklistKind, req dto.AddWorklistRequest) (*dto.WorklistAddResponse, error)
	BulkAdd(ctx context.Context, kind models.WorklistKind, req dto.BulkAddWorklistRequest) (*models.BulkAddResult, error)
	Remove(ctx context.Context, kind models.WorklistKind, mediaID string) error
	Clear(ctx context.Context, kind models.WorklistKind) (*dto.WorklistClearResponse, error)
}

// WorklistHandler exposes the review and quiz lists.
type WorklistHandler struct {
	service worklistService
}

// NewWorklistHandler constructs a worklist handler.
func NewWorklistHandler(service worklistService) *WorklistHandler {
	return &WorklistHandler{service: service}
}

// List godoc
// @Summary List the media of a worklist, most recently added first
// @Tags Lists
// @Produce json
// @Param kind path string true "review or quiz"
// @Success 200 {object} response.Envelope
// @Router /lists/{kind} [get]
func (h *WorklistHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), worklistKind(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil, map[string]interface{}{"count": len(items)})
}

// Add godoc
// @Summary Add media to a worklist
// @Tags Lists
// @Accept json
// @Produce json
// @Param kind path string true "review or quiz"
// @Param payload body dto.AddWorklistRequest true "Media reference"
// @Success 201 {object} response.Envelope
// @Success 200 {object} response.Envelope "already listed"
// @Router /lists/{kind} [post]
func (h *WorklistHandler) Add(c *gin.Context) {
	var req dto.AddWorklistRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.Add(c.Request.Context(), worklistKind(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if result.Added {
		status = http.StatusCreated
	}
	response.JSON(c, status, result, nil)
}

// BulkAdd godoc
// @Summary Add up to 100 media to a worklist
// @Tags Lists
// @Accept json
// @Produce json
// @Param kind path string true "review or quiz"
// @Param payload body dto.BulkAddWorklistRequest true "Media references"
// @Success 200 {object} response.Envelope
// @Router /lists/{kind}/bulk [post]
func (h *WorklistHandler) BulkAdd(c *gin.Context) {
	var req dto.BulkAddWorklistRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.BulkAdd(c.Request.Context(), worklistKind(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Remove godoc
// @Summary Remove media from a worklist
// @Tags Lists
// @Param kind path string true "review or quiz"
// @Param mediaId path string true "Media ID"
// @Success 204
// @Router /lists/{kind}/{mediaId} [delete]
func (h *WorklistHandler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), worklistKind(c), c.Param("mediaId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Clear godoc
// @Summary Empty a worklist
// @Tags Lists
// @Produce json
// @Param kind path string true "review or quiz"
// @Success 200 {object} response.Envelope
// @Router /lists/{kind} [delete]
func (h *WorklistHandler) Clear(c *gin.Context) {
	result, err := h.service.Clear(c.Request.Context(), worklistKind(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
