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

// GuideHandler handles study guide endpoints.
type GuideHandler struct {
	guideService *service.GuideService
	shareService *service.ShareService
}

// NewGuideHandler creates a new GuideHandler.
func NewGuideHandler(guideService *service.GuideService, shareService *service.ShareService) *GuideHandler {
	return &GuideHandler{guideService: guideService, shareService: shareService}
}

// Create godoc
// POST /api/v1/study-guides
// Creates a new draft guide owned by the caller.
func (h *GuideHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateGuideRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	guide := &model.StudyGuide{
		UserID:  claims.UserID,
		Title:   req.Title,
		Subject: req.Subject,
		Content: req.Content,
	}

	if err := h.guideService.Create(c.Request.Context(), guide); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"guide": guide})
}

// ListOwned godoc
// GET /api/v1/study-guides
// Lists the caller's guides, drafts included.
func (h *GuideHandler) ListOwned(c *gin.Context) {
	claims := middleware.GetClaims(c)

	guides, err := h.guideService.ListOwned(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"guides": guides})
}

// Get godoc
// GET /api/v1/study-guides/:id
// Returns one guide. Owners see drafts; students see published guides from
// teachers they follow.
func (h *GuideHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	guideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	guide, err := h.guideService.Get(c.Request.Context(), claims.UserID, claims.UserType, guideID)
	if err != nil {
		if errors.Is(err, service.ErrGuideNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"guide": guide})
}

// GetPayload godoc
// GET /api/v1/study-guides/:id/payload
// Returns the cached payload of a published guide the caller may read.
func (h *GuideHandler) GetPayload(c *gin.Context) {
	claims := middleware.GetClaims(c)
	guideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	// Access check first; the cache itself is not permission-aware.
	if _, err := h.guideService.Get(c.Request.Context(), claims.UserID, claims.UserType, guideID); err != nil {
		if errors.Is(err, service.ErrGuideNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	payload, err := h.guideService.GetPublishedPayload(c.Request.Context(), guideID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGuideNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrGuideNotPublished):
			response.Fail(c, http.StatusConflict, response.ErrGuideNotPublished)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payload": payload})
}

// Publish godoc
// POST /api/v1/study-guides/:id/publish
// Publishes a draft guide. The transition is one-way.
func (h *GuideHandler) Publish(c *gin.Context) {
	claims := middleware.GetClaims(c)
	guideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	guide, err := h.guideService.Publish(c.Request.Context(), guideID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGuideNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotGuideOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotOwner)
		case errors.Is(err, service.ErrAlreadyPublished):
			response.Fail(c, http.StatusBadRequest, response.ErrAlreadyPublished)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"guide": guide})
}

// Delete godoc
// DELETE /api/v1/study-guides/:id
// Deletes a guide owned by the caller.
func (h *GuideHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	guideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.guideService.Delete(c.Request.Context(), guideID, claims.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrGuideNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotGuideOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotOwner)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Share godoc
// POST /api/v1/study-guides/:id/share
// Emails a link to a published guide owned by the caller.
func (h *GuideHandler) Share(c *gin.Context) {
	claims := middleware.GetClaims(c)
	guideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ShareGuideRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.shareService.Share(c.Request.Context(), guideID, claims.UserID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrGuideNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotGuideOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotOwner)
		case errors.Is(err, service.ErrGuideNotPublished):
			response.Fail(c, http.StatusConflict, response.ErrGuideNotPublished)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{})
}

// Feed godoc
// GET /api/v1/feed
// Lists published guides from teachers the caller follows.
func (h *GuideHandler) Feed(c *gin.Context) {
	claims := middleware.GetClaims(c)

	items, err := h.guideService.Feed(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"guides": items})
}
