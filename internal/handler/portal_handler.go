package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prizehub/competitions-api/internal/models"
	"github.com/prizehub/competitions-api/internal/service"
	appErrors "github.com/prizehub/competitions-api/pkg/errors"
	"github.com/prizehub/competitions-api/pkg/response"
)

// PortalHandler exposes the admin list/detail coordinator: the visible
// record set, the current selection and the create-new mode, with filter
// changes debounced against the backend.
type PortalHandler struct {
	service *service.PortalService
}

// NewPortalHandler creates a new handler.
func NewPortalHandler(svc *service.PortalService) *PortalHandler {
	return &PortalHandler{service: svc}
}

type portalFilter struct {
	Status     string `json:"status,omitempty"`
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Search     string `json:"search,omitempty"`
	PrizeMin   *int   `json:"prizeMin,omitempty"`
	PrizeMax   *int   `json:"prizeMax,omitempty"`
	EndBefore  string `json:"endBefore,omitempty"`
}

type portalState struct {
	Visible     []models.Competition `json:"visible"`
	Selected    *models.Competition  `json:"selected,omitempty"`
	CreatingNew bool                 `json:"creatingNew"`
	Filter      portalFilter         `json:"filter"`
}

func (h *PortalHandler) state() portalState {
	spec := h.service.Filter()
	out := portalState{
		Visible:     h.service.Visible(),
		Selected:    h.service.Selected(),
		CreatingNew: h.service.CreatingNew(),
		Filter: portalFilter{
			Status:     spec.Status,
			Category:   spec.Category,
			Difficulty: spec.Difficulty,
			Search:     spec.Search,
			PrizeMin:   spec.PrizeMin,
			PrizeMax:   spec.PrizeMax,
		},
	}
	if spec.EndBefore != nil {
		out.Filter.EndBefore = spec.EndBefore.UTC().Format(time.RFC3339)
	}
	return out
}

// State godoc
// @Summary Portal state
// @Description Current portal view: visible records, selection, create mode and active filter
// @Tags Portal
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/portal [get]
func (h *PortalHandler) State(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.state(), nil)
}

// Load godoc
// @Summary Reload the portal
// @Description Refetch the full record set and reset the selection
// @Tags Portal
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/portal/load [post]
func (h *PortalHandler) Load(c *gin.Context) {
	if err := h.service.Load(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.state(), nil)
}

// SetFilter godoc
// @Summary Change the portal filter
// @Description Apply a new filter; the visible set updates immediately and a remote refresh is debounced
// @Tags Portal
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
// @Security BearerAuth
// @Router /admin/portal/filter [put]
func (h *PortalHandler) SetFilter(c *gin.Context) {
	spec, err := specFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	// The debounced refresh fires after this request completes.
	h.service.SetFilter(context.Background(), spec)
	response.JSON(c, http.StatusOK, h.state(), nil)
}

// Select godoc
// @Summary Select a record
// @Description Switch the detail pane to a visible record
// @Tags Portal
// @Produce json
// @Param id path string true "Competition ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/portal/select/{id} [post]
func (h *PortalHandler) Select(c *gin.Context) {
	if !h.service.Select(c.Param("id")) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "record is not in the visible set"))
		return
	}
	response.JSON(c, http.StatusOK, h.state(), nil)
}

// StartCreate godoc
// @Summary Enter create mode
// @Description Clear the selection and show a blank form
// @Tags Portal
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/portal/new [post]
func (h *PortalHandler) StartCreate(c *gin.Context) {
	h.service.StartCreate()
	response.JSON(c, http.StatusOK, h.state(), nil)
}

// Save godoc
// @Summary Save the form
// @Description Create in create mode, update when a record is selected; reloads and selects the saved record
// @Tags Portal
// @Accept json
// @Produce json
// @Param payload body models.CompetitionFormData true "Competition payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/portal/save [post]
func (h *PortalHandler) Save(c *gin.Context) {
	var form models.CompetitionFormData
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid competition payload"))
		return
	}

	actor := ""
	if claims := claimsFromContext(c); claims != nil {
		actor = claims.UserID
	}

	result, err := h.service.Save(c.Request.Context(), form, actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"result": result, "state": h.state()}, nil)
}

// Cancel godoc
// @Summary Cancel editing
// @Description Leave create mode and revert the selection to the first visible record
// @Tags Portal
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/portal/cancel [post]
func (h *PortalHandler) Cancel(c *gin.Context) {
	h.service.Cancel()
	response.JSON(c, http.StatusOK, h.state(), nil)
}
