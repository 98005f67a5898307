package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulanet/aulanet-api/internal/models"
	"github.com/aulanet/aulanet-api/internal/service"
	appErrors "github.com/aulanet/aulanet-api/pkg/errors"
	"github.com/aulanet/aulanet-api/pkg/response"
)

// CalendarHandler exposes calendar event endpoints.
type CalendarHandler struct {
	calendar *service.CalendarService
}

// NewCalendarHandler constructs handler.
func NewCalendarHandler(calendar *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// List godoc
// @Summary Events overlapping a window, defaulting to the current month
// @Tags Calendar
// @Produce json
// @Param desde query string false "Window start (YYYY-MM-DD)"
// @Param hasta query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /calendario/eventos [get]
func (h *CalendarHandler) List(c *gin.Context) {
	events, err := h.calendar.ListRange(c.Request.Context(), c.Query("desde"), c.Query("hasta"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Create godoc
// @Summary Create a calendar event
// @Tags Calendar
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /calendario/eventos [post]
func (h *CalendarHandler) Create(c *gin.Context) {
	var req models.CalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed event payload"))
		return
	}
	event, err := h.calendar.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Update godoc
// @Summary Update a calendar event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /calendario/eventos/{id} [put]
func (h *CalendarHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.CalendarEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed event payload"))
		return
	}
	event, err := h.calendar.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Delete godoc
// @Summary Delete a calendar event
// @Tags Calendar
// @Param id path int true "Event ID"
// @Success 204
// @Router /calendario/eventos/{id} [delete]
func (h *CalendarHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.calendar.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
