package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guidely/guidely-backend/internal/middleware"
	"github.com/guidely/guidely-backend/internal/response"
	"github.com/guidely/guidely-backend/internal/service"
)

// FollowHandler handles the student-side follow endpoints.
type FollowHandler struct {
	followService *service.FollowService
}

// NewFollowHandler creates a new FollowHandler.
func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// List godoc
// GET /api/v1/follows
// Lists the teachers the caller follows.
func (h *FollowHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)

	teachers, err := h.followService.ListFollowedTeachers(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"teachers": teachers})
}

// GetStatus godoc
// GET /api/v1/follows/:teacher_id
// Reports whether the caller follows the teacher. Available to any
// authenticated user; a teacher simply never has follow edges.
func (h *FollowHandler) GetStatus(c *gin.Context) {
	claims := middleware.GetClaims(c)
	teacherID, err := uuid.Parse(c.Param("teacher_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	following, err := h.followService.IsFollowing(c.Request.Context(), claims.UserID, teacherID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"is_following": following})
}

// Follow godoc
// POST /api/v1/follows/:teacher_id
// Creates a follow edge to an existing teacher.
func (h *FollowHandler) Follow(c *gin.Context) {
	claims := middleware.GetClaims(c)
	teacherID, err := uuid.Parse(c.Param("teacher_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	follow, err := h.followService.Follow(c.Request.Context(), claims.UserID, teacherID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTeacherNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrAlreadyFollowing):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyFollowing)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"follow": follow})
}

// Unfollow godoc
// DELETE /api/v1/follows/:teacher_id
// Removes the follow edge. Succeeds even if the edge does not exist.
func (h *FollowHandler) Unfollow(c *gin.Context) {
	claims := middleware.GetClaims(c)
	teacherID, err := uuid.Parse(c.Param("teacher_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.followService.Unfollow(c.Request.Context(), claims.UserID, teacherID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
