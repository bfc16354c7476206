package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/synergo-api/internal/dto"
	"github.com/noah-isme/synergo-api/internal/models"
	"github.com/noah-isme/synergo-api/internal/service"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
	"github.com/noah-isme/synergo-api/pkg/response"
)

type nomenclatureService interface {
	List(ctx context.Context) ([]models.Nomenclature, bool, error)
	Get(ctx context.Context, id string) (*models.Nomenclature, error)
	Create(ctx context.Context, req dto.NomenclatureRequest) (*models.Nomenclature, error)
	Update(ctx context.Context, id string, req dto.NomenclatureRequest) (*models.Nomenclature, error)
	Delete(ctx context.Context, id string) error
	ReconcileAll(ctx context.Context) (*dto.NomenclatureSyncResult, error)
}

type glossaryExporter interface {
	Nomenclatures(ctx context.Context, format string) (*service.ExportFile, error)
}

// NomenclatureHandler exposes the vocabulary.
type NomenclatureHandler struct {
	service  nomenclatureService
	exporter glossaryExporter
}

// NewNomenclatureHandler constructs a nomenclature handler.
func NewNomenclatureHandler(service nomenclatureService, exporter glossaryExporter) *NomenclatureHandler {
	return &NomenclatureHandler{service: service, exporter: exporter}
}

// List godoc
// @Summary List nomenclatures
// @Tags Nomenclatures
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /nomenclatures [get]
func (h *NomenclatureHandler) List(c *gin.Context) {
	items, cacheHit, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, items, nil, cacheHit)
}

// Get godoc
// @Summary Get nomenclature
// @Tags Nomenclatures
// @Produce json
// @Param id path string true "Nomenclature ID"
// @Success 200 {object} response.Envelope
// @Router /nomenclatures/{id} [get]
func (h *NomenclatureHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create nomenclature
// @Tags Nomenclatures
// @Accept json
// @Produce json
// @Param payload body dto.NomenclatureRequest true "Nomenclature payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /nomenclatures [post]
func (h *NomenclatureHandler) Create(c *gin.Context) {
	var req dto.NomenclatureRequest
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
// @Summary Replace nomenclature
// @Tags Nomenclatures
// @Accept json
// @Produce json
// @Param id path string true "Nomenclature ID"
// @Param payload body dto.NomenclatureRequest true "Nomenclature payload"
// @Success 200 {object} response.Envelope
// @Router /nomenclatures/{id} [put]
func (h *NomenclatureHandler) Update(c *gin.Context) {
	var req dto.NomenclatureRequest
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
// @Summary Delete an unused nomenclature
// @Tags Nomenclatures
// @Param id path string true "Nomenclature ID"
// @Success 204
// @Failure 412 {object} response.Envelope
// @Router /nomenclatures/{id} [delete]
func (h *NomenclatureHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Sync godoc
// @Summary Create missing nomenclatures from media tags and annotations
// @Tags Nomenclatures
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /nomenclatures/sync [post]
func (h *NomenclatureHandler) Sync(c *gin.Context) {
	result, err := h.service.ReconcileAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Download the glossary
// @Tags Nomenclatures
// @Produce octet-stream
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /nomenclatures/export [get]
func (h *NomenclatureHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	file, err := h.exporter.Nomenclatures(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
