package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/synergo-api/internal/dto"
	"github.com/noah-isme/synergo-api/internal/quiz"
	"github.com/noah-isme/synergo-api/internal/service"
	appErrors "github.com/noah-isme/synergo-api/pkg/errors"
	"github.com/noah-isme/synergo-api/pkg/response"
)

type quizService interface {
	Capacity(ctx context.Context) (*dto.QuizCapacity, error)
	Preview(ctx context.Context, count int) ([]quiz.Question, error)
	Start(ctx context.Context, req dto.StartQuizRequest) (*dto.QuizSessionView, error)
	Get(ctx context.Context, id string) (*dto.QuizSessionView, error)
	Answer(ctx context.Context, id string, req dto.AnswerQuizRequest) (*dto.QuizAnswerResponse, error)
	Skip(ctx context.Context, id string) (*dto.QuizSessionView, error)
	Advance(ctx context.Context, id string) (*dto.QuizSessionView, error)
	Result(ctx context.Context, id string) (*quiz.Result, error)
	Abandon(ctx context.Context, id string) error
}

type resultExporter interface {
	QuizResult(ctx context.Context, sessionID string, result *quiz.Result) (*service.ExportFile, error)
}

// QuizHandler drives quiz sessions over HTTP.
type QuizHandler struct {
	service  quizService
	exporter resultExporter
}

// NewQuizHandler constructs a quiz handler.
func NewQuizHandler(service quizService, exporter resultExporter) *QuizHandler {
	return &QuizHandler{service: service, exporter: exporter}
}

// Capacity godoc
// @Summary How many questions the quiz list supports
// @Tags Quiz
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /quiz/capacity [get]
func (h *QuizHandler) Capacity(c *gin.Context) {
	capacity, err := h.service.Capacity(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, capacity, nil)
}

// Preview godoc
// @Summary Generate a deck with its answers without opening a session
// @Tags Quiz
// @Produce json
// @Param count query int false "Number of questions"
// @Success 200 {object} response.Envelope
// @Router /quiz/preview [get]
func (h *QuizHandler) Preview(c *gin.Context) {
	count := 0
	if raw := strings.TrimSpace(c.Query("count")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "count must be a positive integer"))
			return
		}
		count = parsed
	}
	deck, err := h.service.Preview(c.Request.Context(), count)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, deck, nil, map[string]interface{}{"count": len(deck)})
}

// Start godoc
// @Summary Start a quiz session
// @Tags Quiz
// @Accept json
// @Produce json
// @Param payload body dto.StartQuizRequest false "Question count"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /quiz/sessions [post]
func (h *QuizHandler) Start(c *gin.Context) {
	var req dto.StartQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	view, err := h.service.Start(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// Get godoc
// @Summary Get a quiz session
// @Tags Quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /quiz/sessions/{id} [get]
func (h *QuizHandler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Answer godoc
// @Summary Answer the current question
// @Tags Quiz
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.AnswerQuizRequest true "Selected options"
// @Success 200 {object} response.Envelope
// @Router /quiz/sessions/{id}/answer [post]
func (h *QuizHandler) Answer(c *gin.Context) {
	var req dto.AnswerQuizRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.Answer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Skip godoc
// @Summary Skip the current question
// @Tags Quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /quiz/sessions/{id}/skip [post]
func (h *QuizHandler) Skip(c *gin.Context) {
	view, err := h.service.Skip(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Advance godoc
// @Summary Move past an answered question
// @Tags Quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /quiz/sessions/{id}/advance [post]
func (h *QuizHandler) Advance(c *gin.Context) {
	view, err := h.service.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Result godoc
// @Summary Result of a completed session
// @Tags Quiz
// @Produce json
// @Param id path string true "Session ID"
// @Param format query string false "pdf for a printable report"
// @Success 200 {object} response.Envelope
// @Router /quiz/sessions/{id}/result [get]
func (h *QuizHandler) Result(c *gin.Context) {
	id := c.Param("id")
	result, err := h.service.Result(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	switch strings.ToLower(c.Query("format")) {
	case "", "json":
		response.JSON(c, http.StatusOK, result, nil)
	case service.FormatPDF:
		if h.exporter == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
			return
		}
		file, err := h.exporter.QuizResult(c.Request.Context(), id, result)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Attachment(c, file.Filename, file.ContentType, file.Data)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be json or pdf"))
	}
}

// Abandon godoc
// @Summary Discard a quiz session
// @Tags Quiz
// @Param id path string true "Session ID"
// @Success 204
// @Router /quiz/sessions/{id} [delete]
func (h *QuizHandler) Abandon(c *gin.Context) {
	if err := h.service.Abandon(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
