package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guidely/guidely-backend/internal/middleware"
	"github.com/guidely/guidely-backend/internal/response"
	"github.com/guidely/guidely-backend/internal/service"
)

// DashboardHandler handles the teacher dashboard endpoint.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard godoc
// GET /api/v1/dashboard
// Returns summary counts and recent activity for the caller.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	claims := middleware.GetClaims(c)

	data, err := h.dashboardService.GetDashboardData(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, data)
}
