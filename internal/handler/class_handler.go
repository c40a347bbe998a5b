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

// ClassHandler handles student-class assignment endpoints.
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// List godoc
// GET /api/v1/student-classes?student_id=...
// Lists the caller's class assignments for one followed student.
func (h *ClassHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	studentID, err := uuid.Parse(c.Query("student_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	assignments, err := h.classService.ListForStudent(c.Request.Context(), claims.UserID, studentID)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFollowed) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignments": assignments})
}

// Assign godoc
// POST /api/v1/student-classes
// Assigns a followed student to one of the caller's classes.
func (h *ClassHandler) Assign(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.AssignClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	assignment, err := h.classService.Assign(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFollowed):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrDuplicateAssignment):
			response.Fail(c, http.StatusConflict, response.ErrDuplicateAssignment)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"assignment": assignment})
}

// Remove godoc
// DELETE /api/v1/student-classes/:id
// Removes an assignment owned by the caller.
func (h *ClassHandler) Remove(c *gin.Context) {
	claims := middleware.GetClaims(c)
	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.classService.Remove(c.Request.Context(), claims.UserID, assignmentID); err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotAssignmentOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotOwner)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
