package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulanet/aulanet-api/internal/models"
	"github.com/aulanet/aulanet-api/internal/service"
	appErrors "github.com/aulanet/aulanet-api/pkg/errors"
	"github.com/aulanet/aulanet-api/pkg/response"
)

// reportExporter is implemented by the report service.
type reportExporter interface {
	Export(ctx context.Context, reportType models.ReportType, classID int64, format models.ReportFormat) (*models.Report, *service.ExportedFile, error)
}

// ReportHandler exposes report export endpoints.
type ReportHandler struct {
	reports reportExporter
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportExporter) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Export godoc
// @Summary Export a class report as json, pdf or csv
// @Tags Reports
// @Produce json
// @Param tipo path string true "Report type (asistencia, tareas, examenes)"
// @Param claseId path int true "Class ID"
// @Param formato query string false "Output format, defaults to json"
// @Success 200 {object} response.Envelope
// @Router /reportes/export/{tipo}/{claseId} [get]
func (h *ReportHandler) Export(c *gin.Context) {
	reportType := models.ReportType(c.Param("tipo"))
	if !reportType.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "tipo must be one of: asistencia, tareas, examenes"))
		return
	}
	classID, err := pathID(c, "claseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	format := models.ReportFormat(c.DefaultQuery("formato", string(models.FormatJSON)))
	if !format.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "formato must be one of: json, pdf, csv"))
		return
	}

	report, file, err := h.reports.Export(c.Request.Context(), reportType, classID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	if format == models.FormatJSON {
		c.JSON(http.StatusOK, gin.H{"success": true, "reporte": report})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
