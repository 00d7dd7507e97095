package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prizehub/competitions-api/internal/models"
	"github.com/prizehub/competitions-api/internal/service"
	appErrors "github.com/prizehub/competitions-api/pkg/errors"
	"github.com/prizehub/competitions-api/pkg/response"
)

// CompetitionHandler exposes the admin competition CRUD endpoints.
type CompetitionHandler struct {
	service *service.CompetitionService
}

// NewCompetitionHandler creates a new handler.
func NewCompetitionHandler(svc *service.CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{service: svc}
}

// List godoc
// @Summary List competitions (admin)
// @Description List competitions with optional filters
// @Tags Competitions
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
// @Security BearerAuth
// @Router /admin/competitions [get]
func (h *CompetitionHandler) List(c *gin.Context) {
	spec, err := specFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	competitions, err := h.service.List(c.Request.Context(), spec)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, competitions, nil)
}

// Get godoc
// @Summary Get a competition (admin)
// @Description Get a competition with its projection rows
// @Tags Competitions
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/competitions/{id} [get]
func (h *CompetitionHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Create a competition
// @Description Create a competition and project its secondary rows
// @Tags Competitions
// @Accept json
// @Produce json
// @Param payload body models.CompetitionFormData true "Competition payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/competitions [post]
func (h *CompetitionHandler) Create(c *gin.Context) {
	var form models.CompetitionFormData
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid competition payload"))
		return
	}

	actor := ""
	if claims := claimsFromContext(c); claims != nil {
		actor = claims.UserID
	}

	result, err := h.service.Create(c.Request.Context(), form, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Update godoc
// @Summary Update a competition
// @Description Update a competition and rewrite its projections
// @Tags Competitions
// @Accept json
// @Produce json
// @Param id path string true "Competition ID"
// @Param payload body models.CompetitionFormData true "Competition payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/competitions/{id} [put]
func (h *CompetitionHandler) Update(c *gin.Context) {
	var form models.CompetitionFormData
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid competition payload"))
		return
	}

	result, err := h.service.Update(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}
