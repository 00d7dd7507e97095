package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prizehub/competitions-api/internal/service"
	appErrors "github.com/prizehub/competitions-api/pkg/errors"
	"github.com/prizehub/competitions-api/pkg/response"
)

// PublicHandler exposes the visitor-facing listing and bookmark endpoints.
type PublicHandler struct {
	service *service.CompetitionService
}

// NewPublicHandler creates a new handler.
func NewPublicHandler(svc *service.CompetitionService) *PublicHandler {
	return &PublicHandler{service: svc}
}

// List godoc
// @Summary List competitions
// @Description List competitions with optional filters; served through the listing cache
// @Tags Public
// @Produce json
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param difficulty query string false "Difficulty filter"
// @Param search query string false "Search over title and description"
// @Param prizeMin query int false "Minimum prize value"
// @Param prizeMax query int false "Maximum prize value"
// @Param endBefore query string false "End date cutoff"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /competitions [get]
func (h *PublicHandler) List(c *gin.Context) {
	spec, err := specFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	competitions, err := h.service.CachedList(c.Request.Context(), spec)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, competitions, nil)
}

// Get godoc
// @Summary Get a competition
// @Description Get a competition with eligibility and requirement projections
// @Tags Public
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /competitions/{id} [get]
func (h *PublicHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// ToggleSaved godoc
// @Summary Toggle a bookmark
// @Description Save or unsave a competition for the current user
// @Tags Public
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /competitions/{id}/save [post]
func (h *PublicHandler) ToggleSaved(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	saved, err := h.service.ToggleSaved(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"saved": saved}, nil)
}

// ListSaved godoc
// @Summary List saved competitions
// @Description List the current user's bookmarked competitions
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Security BearerAuth
// @Router /me/saved [get]
func (h *PublicHandler) ListSaved(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	competitions, err := h.service.ListSaved(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, competitions, nil)
}
