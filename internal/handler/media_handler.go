package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/synergo-api/internal/catalog"
	"github.com/noah-isme/synergo-api/internal/dto"
	"github.com/noah-isme/synergo-api/internal/models"
	"github.com/noah-isme/synergo-api/pkg/response"
)

type mediaService interface {
	List(ctx context.Context, query dto.MediaListQuery) ([]models.Media, *models.Pagination, bool, error)
	Get(ctx context.Context, id string) (*models.Media, error)
	Create(ctx context.Context, req dto.CreateMediaRequest) (*models.Media, error)
	Update(ctx context.Context, id string, req dto.UpdateMediaRequest) (*models.Media, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query dto.MediaSearchQuery) ([]models.Media, error)
	CategoryTree(ctx context.Context) ([]catalog.CategoryNode, bool, error)
	NextNumber(ctx context.Context, query dto.NextNumberQuery) (*dto.NextNumberResponse, error)
}

// MediaHandler exposes the media catalogue.
type MediaHandler struct {
	service mediaService
}

// NewMediaHandler constructs a media handler.
func NewMediaHandler(service mediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

// List godoc
// @Summary List media
// @Tags Media
// @Produce json
// @Param type query string false "video or photo"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /media [get]
func (h *MediaHandler) List(c *gin.Context) {
	var query dto.MediaListQuery
	if !bindQuery(c, &query) {
		return
	}
	items, pagination, cacheHit, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, items, pagination, cacheHit)
}

// Get godoc
// @Summary Get media
// @Tags Media
// @Produce json
// @Param id path string true "Media ID"
// @Success 200 {object} response.Envelope
// @Router /media/{id} [get]
func (h *MediaHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Catalogue a resource
// @Tags Media
// @Accept json
// @Produce json
// @Param payload body dto.CreateMediaRequest true "Media payload"
// @Success 201 {object} response.Envelope
// @Router /media [post]
func (h *MediaHandler) Create(c *gin.Context) {
	var req dto.CreateMediaRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update media
// @Tags Media
// @Accept json
// @Produce json
// @Param id path string true "Media ID"
// @Param payload body dto.UpdateMediaRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /media/{id} [put]
func (h *MediaHandler) Update(c *gin.Context) {
	var req dto.UpdateMediaRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete media
// @Tags Media
// @Param id path string true "Media ID"
// @Success 204
// @Router /media/{id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Search godoc
// @Summary Search the catalogue
// @Tags Media
// @Produce json
// @Param q query string false "Fuzzy query"
// @Param fields query []string false "title, description, tags"
// @Param type query string false "video or photo"
// @Param category query string false "Category prefix"
// @Param similar_to query string false "Hierarchical tag"
// @Param limit query int false "Maximum results"
// @Success 200 {object} response.Envelope
// @Router /media/search [get]
func (h *MediaHandler) Search(c *gin.Context) {
	var query dto.MediaSearchQuery
	if !bindQuery(c, &query) {
		return
	}
	if len(query.Fields) == 1 && strings.Contains(query.Fields[0], ",") {
		query.Fields = strings.Split(query.Fields[0], ",")
	}
	items, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil, map[string]interface{}{"count": len(items)})
}

// Categories godoc
// @Summary Category tree built from hierarchical tags
// @Tags Media
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /media/categories [get]
func (h *MediaHandler) Categories(c *gin.Context) {
	tree, cacheHit, err := h.service.CategoryTree(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, tree, nil, cacheHit)
}

// NextNumber godoc
// @Summary Next free number of a resource file series
// @Tags Media
// @Produce json
// @Param date query string true "YYYYMMDD"
// @Param source query string true "Source"
// @Param subject query string true "Subject"
// @Success 200 {object} response.Envelope
// @Router /media/next-number [get]
func (h *MediaHandler) NextNumber(c *gin.Context) {
	var query dto.NextNumberQuery
	if !bindQuery(c, &query) {
		return
	}
	result, err := h.service.NextNumber(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
