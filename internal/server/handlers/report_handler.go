package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/washify/internal/domain/models"
	"github.com/mamadbah2/washify/internal/service/export"
)

// ReportService describes the reporting operations the HTTP layer needs.
type ReportService interface {
	Dashboard(ctx context.Context, userID string, f models.DateFilter) (models.Summary, error)
	Report(ctx context.Context, user models.User, f models.DateFilter) (models.Report, error)
	History(ctx context.Context, userID string, limit int) ([]models.DailyReport, error)
}

// SheetsPusher appends a report to the configured spreadsheet.
type SheetsPusher interface {
	Push(ctx context.Context, r models.Report, generatedAt time.Time) (export.SheetsResult, error)
}

// ReportHandler serves the dashboard, reports and exports.
type ReportHandler struct {
	svc    ReportService
	sheets SheetsPusher
	clock  Clock
	logger *zap.Logger
}

// NewReportHandler builds a ReportHandler. A nil sheets pusher answers 503
// on the Google Sheets endpoint.
func NewReportHandler(svc ReportService, sheets SheetsPusher, clock Clock, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, sheets: sheets, clock: clock, logger: orNop(logger)}
}

// Dashboard handles GET /api/dashboard. Without a mode it shows the current
// month.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	f, err := h.clock.filter(c, models.FilterMonth)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	summary, err := h.svc.Dashboard(c.Request.Context(), currentUser(c).ID, f)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": f.Label(), "summary": summary})
}

// Report handles GET /api/reports.
func (h *ReportHandler) Report(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// Export handles GET /api/reports/export?format=xlsx|pdf.
func (h *ReportHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatExcel)))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	report, ok := h.report(c)
	if !ok {
		return
	}

	data, err := export.Render(report, format)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(report, format)))
	c.Data(http.StatusOK, format.ContentType(), data)
}

// PushSheets handles POST /api/reports/sheets.
func (h *ReportHandler) PushSheets(c *gin.Context) {
	if h.sheets == nil {
		respondError(c, h.logger, fmt.Errorf("google sheets export: %w", errNotConfigured))
		return
	}

	report, ok := h.report(c)
	if !ok {
		return
	}

	result, err := h.sheets.Push(c.Request.Context(), report, h.clock.now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// History handles GET /api/reports/daily?limit=n.
func (h *ReportHandler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 366 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 366"})
			return
		}
		limit = n
	}

	reports, err := h.svc.History(c.Request.Context(), currentUser(c).ID, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *ReportHandler) report(c *gin.Context) (models.Report, bool) {
	f, err := h.clock.filter(c, models.FilterMonth)
	if err != nil {
		respondError(c, h.logger, err)
		return models.Report{}, false
	}

	report, err := h.svc.Report(c.Request.Context(), currentUser(c), f)
	if err != nil {
		respondError(c, h.logger, err)
		return models.Report{}, false
	}
	return report, true
}
