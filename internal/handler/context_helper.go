package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/synergo-api/internal/middleware"
	"github.com/noah-isme/synergo-api/internal/models"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
	"github.com/noah-isme/synergo-api/pkg/response"
)

// respondCached writes data with the cache hit flag in the response meta.
func respondCached(c *gin.Context, data interface{}, pagination *models.Pagination, cacheHit bool) {
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, data, pagination, middleware.ExtractMeta(c))
}

// bindJSON decodes the request body, answering 400 on malformed input.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return false
	}
	return true
}

func worklistKind(c *gin.Context) models.WorklistKind {
	return models.WorklistKind(strings.ToLower(strings.TrimSpace(c.Param("kind"))))
}
