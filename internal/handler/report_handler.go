package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guidely/guidely-backend/internal/middleware"
	"github.com/guidely/guidely-backend/internal/model"
	"github.com/guidely/guidely-backend/internal/response"
	"github.com/guidely/guidely-backend/internal/service"
	"github.com/guidely/guidely-backend/internal/validator"
)

// ReportHandler handles grade report endpoints.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Create godoc
// POST /api/v1/grade-reports
// Records a graded exam for the caller.
func (h *ReportHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateGradingResultRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.reportService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"grading_result": result})
}

// ListForStudent godoc
// GET /api/v1/grade-reports/student/:student_id
// Lists the caller's reports for one followed student.
func (h *ReportHandler) ListForStudent(c *gin.Context) {
	claims := middleware.GetClaims(c)
	studentID, err := uuid.Parse(c.Param("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	student, reports, err := h.reportService.ListForTeacher(c.Request.Context(), claims.UserID, studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFollowed) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"student":         student,
		"grading_results": reports,
	})
}

// MyGradeReports godoc
// GET /api/v1/my-grade-reports
// Lists the caller's own reports with teachers embedded.
func (h *ReportHandler) MyGradeReports(c *gin.Context) {
	claims := middleware.GetClaims(c)

	reports, err := h.reportService.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grade_reports": reports})
}

// Delete godoc
// DELETE /api/v1/grading-results/:id
// Deletes a grading result recorded by the caller. Legacy clients send the
// owner ID in the body; when it disagrees with the token the request is
// rejected rather than trusted.
func (h *ReportHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resultID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.DeleteGradingResultRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.UserID != nil && *req.UserID != claims.UserID {
		response.Fail(c, http.StatusForbidden, response.ErrNotOwner)
		return
	}

	if err := h.reportService.Delete(c.Request.Context(), resultID, claims.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrReportNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotReportOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotOwner)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
