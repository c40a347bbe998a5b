package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guidely/guidely-backend/internal/model"
	"github.com/guidely/guidely-backend/internal/response"
	"github.com/guidely/guidely-backend/internal/service"
	"github.com/guidely/guidely-backend/internal/validator"
)

// ScoringHandler handles the AI short-answer scoring endpoint.
type ScoringHandler struct {
	scoringService *service.ScoringService
}

// NewScoringHandler creates a new ScoringHandler.
func NewScoringHandler(scoringService *service.ScoringService) *ScoringHandler {
	return &ScoringHandler{scoringService: scoringService}
}

// ScoreShortAnswer godoc
// POST /api/v1/score-short-answer
// Grades a student's short answer against the sample answer. A reply the
// parser cannot read is a server error; no fallback score is invented.
func (h *ScoringHandler) ScoreShortAnswer(c *gin.Context) {
	var req model.ScoreShortAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.scoringService.Score(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCompletionParse):
			response.Fail(c, http.StatusInternalServerError, response.ErrUpstreamParse)
		case errors.Is(err, service.ErrCompletionUpstream):
			response.Fail(c, http.StatusInternalServerError, response.ErrUpstream)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}
