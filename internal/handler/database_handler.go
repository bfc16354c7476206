package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/synergo-api/internal/dto"
	"github.com/noah-isme/synergo-api/internal/models"
	"github.com/noah-isme/synergo-api/internal/service"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
	"github.com/noah-isme/synergo-api/pkg/response"
	"github.com/noah-isme/synergo-api/pkg/storage"
)

type databaseService interface {
	Export(ctx context.Context) (*models.DatabaseSnapshot, error)
	Import(ctx context.Context, snapshot *models.DatabaseSnapshot) (*dto.DatabaseResetResponse, error)
	Reset(ctx context.Context) (*dto.DatabaseResetResponse, error)
	Backup(ctx context.Context) (*models.BackupFile, error)
	Download(ctx context.Context, token string) (*service.BackupDownload, error)
	ListBackups(ctx context.Context) ([]storage.FileInfo, error)
}

// DatabaseHandler exposes whole-store operations.
type DatabaseHandler struct {
	service databaseService
}

// NewDatabaseHandler constructs the handler.
func NewDatabaseHandler(service databaseService) *DatabaseHandler {
	return &DatabaseHandler{service: service}
}

// Export godoc
// @Summary Full snapshot of the store
// @Tags Database
// @Produce json
// @Param download query bool false "Send as attachment"
// @Success 200 {object} response.Envelope
// @Router /database [get]
func (h *DatabaseHandler) Export(c *gin.Context) {
	snapshot, err := h.service.Export(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if c.Query("download") == "true" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("synergo_export_%s.json", time.Now().UTC().Format("20060102_150405"))))
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, snapshot)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Import godoc
// @Summary Replace the store with a snapshot
// @Tags Database
// @Accept json
// @Produce json
// @Param payload body models.DatabaseSnapshot true "Snapshot"
// @Success 200 {object} response.Envelope
// @Router /database/import [post]
func (h *DatabaseHandler) Import(c *gin.Context) {
	var snapshot models.DatabaseSnapshot
	if !bindJSON(c, &snapshot) {
		return
	}
	result, err := h.service.Import(c.Request.Context(), &snapshot)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Reset godoc
// @Summary Delete all content
// @Tags Database
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /database/reset [post]
func (h *DatabaseHandler) Reset(c *gin.Context) {
	result, err := h.service.Reset(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Backup godoc
// @Summary Write a backup file and return a signed download link
// @Tags Database
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /database/backup [post]
func (h *DatabaseHandler) Backup(c *gin.Context) {
	backup, err := h.service.Backup(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, backup)
}

// ListBackups godoc
// @Summary List stored backups
// @Tags Database
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /database/backups [get]
func (h *DatabaseHandler) ListBackups(c *gin.Context) {
	files, err := h.service.ListBackups(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, files, nil)
}

// Download godoc
// @Summary Download a backup via signed token
// @Tags Database
// @Produce json
// @Param token query string true "Signed token"
// @Success 200 {file} binary
// @Router /database/backups/download [get]
func (h *DatabaseHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	file, err := h.service.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, "application/json", file.Data)
}
