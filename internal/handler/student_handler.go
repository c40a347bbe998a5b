package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guidely/guidely-backend/internal/middleware"
	"github.com/guidely/guidely-backend/internal/response"
	"github.com/guidely/guidely-backend/internal/service"
)

// StudentHandler handles teacher-side student discovery endpoints.
type StudentHandler struct {
	userService *service.UserService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(userService *service.UserService) *StudentHandler {
	return &StudentHandler{userService: userService}
}

// Search godoc
// GET /api/v1/students/search?q=...&limit=...
// Free-text search over student accounts.
func (h *StudentHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		return
	}

	var limit int
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
				"limit": "limit must be an integer",
			})
			return
		}
		limit = parsed
	}

	students, err := h.userService.SearchStudents(c.Request.Context(), query, limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// Suggest godoc
// GET /api/v1/students/suggest?first_name=...&last_name=...
// Ranks the teacher's student followers against the name fragments.
func (h *StudentHandler) Suggest(c *gin.Context) {
	claims := middleware.GetClaims(c)

	suggestions, err := h.userService.SuggestStudents(
		c.Request.Context(),
		claims.UserID,
		c.Query("first_name"),
		c.Query("last_name"),
	)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"suggestions": suggestions})
}
