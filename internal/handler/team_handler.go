package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulanet/aulanet-api/internal/models"
	"github.com/aulanet/aulanet-api/internal/service"
	appErrors "github.com/aulanet/aulanet-api/pkg/errors"
	"github.com/aulanet/aulanet-api/pkg/response"
)

// TeamHandler exposes class team endpoints.
type TeamHandler struct {
	teams *service.TeamService
}

// NewTeamHandler constructs handler.
func NewTeamHandler(teams *service.TeamService) *TeamHandler {
	return &TeamHandler{teams: teams}
}

// ListByClass godoc
// @Summary Teams of a class with rosters
// @Tags Teams
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /clases/{id}/equipos [get]
func (h *TeamHandler) ListByClass(c *gin.Context) {
	classID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	teams, err := h.teams.ListByClass(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teams, nil)
}

// AvailableStudents godoc
// @Summary Students of a class not yet on a team
// @Tags Teams
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /clases/{id}/equipos/disponibles [get]
func (h *TeamHandler) AvailableStudents(c *gin.Context) {
	classID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.teams.AvailableStudents(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Create godoc
// @Summary Create a team with an initial roster
// @Tags Teams
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /equipos [post]
func (h *TeamHandler) Create(c *gin.Context) {
	var req models.TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed team payload"))
		return
	}
	team, err := h.teams.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, team)
}

// Replace godoc
// @Summary Replace the entire team layout of a class
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /clases/{id}/equipos [put]
func (h *TeamHandler) Replace(c *gin.Context) {
	classID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.ReplaceTeamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed teams payload"))
		return
	}
	teams, err := h.teams.Replace(c.Request.Context(), classID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teams, nil)
}

// Delete godoc
// @Summary Delete a team
// @Tags Teams
// @Param id path string true "Team ID"
// @Success 204
// @Router /equipos/{id} [delete]
func (h *TeamHandler) Delete(c *gin.Context) {
	teamID := c.Param("id")
	if teamID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id is required"))
		return
	}
	if err := h.teams.Delete(c.Request.Context(), teamID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
