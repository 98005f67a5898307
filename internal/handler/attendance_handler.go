package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulanet/aulanet-api/internal/models"
	"github.com/aulanet/aulanet-api/internal/service"
	appErrors "github.com/aulanet/aulanet-api/pkg/errors"
	"github.com/aulanet/aulanet-api/pkg/response"
)

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// ListByClass godoc
// @Summary Attendance rows of a class, optionally for one day
// @Tags Attendance
// @Produce json
// @Param id path int true "Class ID"
// @Param fecha query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /asistencias/clase/{id} [get]
func (h *AttendanceHandler) ListByClass(c *gin.Context) {
	classID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var rows []models.ClassAttendanceRow
	if fecha := c.Query("fecha"); fecha != "" {
		rows, err = h.attendance.ListByClassDate(c.Request.Context(), classID, fecha)
	} else {
		rows, err = h.attendance.ListByClass(c.Request.Context(), classID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// BulkSave godoc
// @Summary Save a batch of attendance cells atomically
// @Tags Attendance
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /asistencias [post]
func (h *AttendanceHandler) BulkSave(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.BulkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed attendance payload"))
		return
	}
	if err := h.attendance.BulkSave(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"registros_guardados": len(req.Records)}, nil)
}

// ClassSummary godoc
// @Summary Absence counts, alert tiers and row backgrounds for a class
// @Tags Attendance
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /clases/{id}/resumen-asistencia [get]
func (h *AttendanceHandler) ClassSummary(c *gin.Context) {
	classID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.attendance.ClassSummary(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
