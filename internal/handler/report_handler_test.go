package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aulanet/aulanet-api/internal/models"
	"github.com/aulanet/aulanet-api/internal/service"
)

type reportExporterMock struct {
	report     *models.Report
	file       *service.ExportedFile
	err        error
	lastType   models.ReportType
	lastClass  int64
	lastFormat models.ReportFormat
}

func (m *reportExporterMock) Export(ctx context.Context, reportType models.ReportType, classID int64, format models.ReportFormat) (*models.Report, *service.ExportedFile, error) {
	m.lastType = reportType
	m.lastClass = classID
	m.lastFormat = format
	return m.report, m.file, m.err
}

func newReportContext(path string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	c.Request = req
	return c, w
}

func TestReportHandlerExportJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportExporterMock{
		report: &models.Report{Type: models.ReportAttendance},
	}
	handler := NewReportHandler(mockSvc)

	c, w := newReportContext("/reportes/export/asistencia/7")
	c.Params = gin.Params{{Key: "tipo", Value: "asistencia"}, {Key: "claseId", Value: "7"}}

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ReportAttendance, mockSvc.lastType)
	assert.Equal(t, int64(7), mockSvc.lastClass)
	assert.Equal(t, models.FormatJSON, mockSvc.lastFormat)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "reporte")
}

func TestReportHandlerExportPDFAttachment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportExporterMock{
		file: &service.ExportedFile{
			Filename:    "reporte_tareas_1700000000000.pdf",
			ContentType: "application/pdf",
			Content:     []byte("%PDF-1.4"),
		},
	}
	handler := NewReportHandler(mockSvc)

	c, w := newReportContext("/reportes/export/tareas/7?formato=pdf")
	c.Params = gin.Params{{Key: "tipo", Value: "tareas"}, {Key: "claseId", Value: "7"}}

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "reporte_tareas_1700000000000.pdf")
}

func TestReportHandlerExportRejectsUnknownType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportExporterMock{})

	c, w := newReportContext("/reportes/export/notas/7")
	c.Params = gin.Params{{Key: "tipo", Value: "notas"}, {Key: "claseId", Value: "7"}}

	handler.Export(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerExportRejectsUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportExporterMock{})

	c, w := newReportContext("/reportes/export/asistencia/7?formato=xlsx")
	c.Params = gin.Params{{Key: "tipo", Value: "asistencia"}, {Key: "claseId", Value: "7"}}

	handler.Export(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerExportRejectsBadClassID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportExporterMock{})

	c, w := newReportContext("/reportes/export/asistencia/abc")
	c.Params = gin.Params{{Key: "tipo", Value: "asistencia"}, {Key: "claseId", Value: "abc"}}

	handler.Export(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
