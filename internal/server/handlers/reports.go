package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/station/internal/domain/models"
	"github.com/mamadbah2/station/internal/service/reporting"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportBuilder produces dashboard reports for a window.
type ReportBuilder interface {
	Build(ctx context.Context, w reporting.Window) (models.DashboardReport, error)
}

// ReportHandler serves the dashboard and its spreadsheet export.
type ReportHandler struct {
	reports ReportBuilder
	loc     *time.Location
	logger  *zap.Logger
}

// NewReportHandler builds a ReportHandler. Query dates are read in loc.
func NewReportHandler(reports ReportBuilder, loc *time.Location, logger *zap.Logger) *ReportHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ReportHandler{reports: reports, loc: loc, logger: nopIfNil(logger)}
}

// Dashboard handles GET /reports/dashboard?range=|start=&end=.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	report, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// Export handles GET /reports/export.xlsx with the dashboard parameters.
func (h *ReportHandler) Export(c *gin.Context) {
	report, ok := h.build(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := reporting.WriteWorkbook(report, &buf); err != nil {
		respondError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("station-report-%s.xlsx", report.GeneratedAt.In(h.loc).Format(models.DateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ReportHandler) build(c *gin.Context) (models.DashboardReport, bool) {
	w, err := reporting.ParseWindow(c.Query("range"), c.Query("start"), c.Query("end"), h.loc)
	if err != nil {
		respondError(c, h.logger, err)
		return models.DashboardReport{}, false
	}

	report, err := h.reports.Build(c.Request.Context(), w)
	if err != nil {
		respondError(c, h.logger, err)
		return models.DashboardReport{}, false
	}
	return report, true
}
