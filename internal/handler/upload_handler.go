package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/synergo-api/internal/models"
	"github.com/noah-isme/synergo-api/internal/service"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
	"github.com/noah-isme/synergo-api/pkg/response"
)

type uploadService interface {
	Upload(ctx context.Context, upload service.ResourceUpload) (*models.UploadedFile, error)
	ListFiles(ctx context.Context) ([]models.UploadedFile, error)
}

// UploadHandler accepts resource files.
type UploadHandler struct {
	service uploadService
}

// NewUploadHandler constructs the handler.
func NewUploadHandler(service uploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload godoc
// @Summary Upload a video or photo
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Resource"
// @Param name formData string false "Stored file name without extension"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	reader, ok := src.(io.ReadSeeker)
	if !ok {
		buf, readErr := io.ReadAll(src)
		if readErr != nil {
			response.Error(c, appErrors.Wrap(readErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to buffer file"))
			return
		}
		reader = bytes.NewReader(buf)
	}
	file, err := h.service.Upload(c.Request.Context(), service.ResourceUpload{
		Filename: fileHeader.Filename,
		Name:     c.PostForm("name"),
		Size:     fileHeader.Size,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Content:  reader,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, file, nil)
}

// ListFiles godoc
// @Summary List uploaded resources
// @Tags Upload
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /upload/files [get]
func (h *UploadHandler) ListFiles(c *gin.Context) {
	files, err := h.service.ListFiles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, files, nil, map[string]interface{}{"count": len(files)})
}
