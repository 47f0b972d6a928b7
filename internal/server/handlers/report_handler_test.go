package handlers

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/washify/internal/domain/models"
	"github.com/mamadbah2/washify/internal/service/export"
)

func reportRoutes(svc *mockReportService, sheets SheetsPusher) http.Handler {
	h := NewReportHandler(svc, sheets, testClock, nil)
	r := newEngine()
	r.GET("/dashboard", h.Dashboard)
	r.GET("/reports", h.Report)
	r.GET("/reports/export", h.Export)
	r.GET("/reports/daily", h.History)
	r.POST("/reports/sheets", h.PushSheets)
	return r
}

func sampleReport() models.Report {
	return models.Report{
		ShopName: "Sparkle",
		Period:   "March 2024",
		Summary:  models.Summary{TotalOrders: 1, TotalIncome: decimal.NewFromInt(100), NetProfit: decimal.NewFromInt(100)},
		Orders:   []models.Order{{ID: "o1", Customer: "Bola", Service: models.ServiceWashing, Price: decimal.NewFromInt(100), PaymentStatus: models.PaymentPaid, Date: testNow}},
	}
}

func currentMonth(f models.DateFilter) bool {
	return f.Mode == models.FilterMonth && f.Month == 3 && f.Year == 2024
}

func TestDashboardDefaultsToCurrentMonth(t *testing.T) {
	svc := new(mockReportService)
	svc.On("Dashboard", mock.Anything, "u1", mock.MatchedBy(currentMonth)).
		Return(models.Summary{TotalOrders: 2, TotalIncome: decimal.NewFromInt(150)}, nil).Once()

	w := do(reportRoutes(svc, nil), http.MethodGet, "/dashboard", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"period":"March 2024"`)
	assert.Contains(t, w.Body.String(), `"totalOrders":2`)
	svc.AssertExpectations(t)
}

func TestReport(t *testing.T) {
	svc := new(mockReportService)
	svc.On("Report", mock.Anything, testUser, mock.MatchedBy(func(f models.DateFilter) bool {
		return f.Mode == models.FilterYear && f.Year == 2023
	})).Return(sampleReport(), nil).Once()

	w := do(reportRoutes(svc, nil), http.MethodGet, "/reports?mode=year&year=2023", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"customer":"Bola"`)
	svc.AssertExpectations(t)
}

func TestExport(t *testing.T) {
	tests := []struct {
		query       string
		contentType string
		filename    string
		magic       []byte
	}{
		{"", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "sparkle-march-2024.xlsx", []byte("PK")},
		{"?format=pdf", "application/pdf", "sparkle-march-2024.pdf", []byte("%PDF")},
	}

	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			svc := new(mockReportService)
			svc.On("Report", mock.Anything, testUser, mock.MatchedBy(currentMonth)).Return(sampleReport(), nil).Once()

			w := do(reportRoutes(svc, nil), http.MethodGet, "/reports/export"+tc.query, "")

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.contentType, w.Header().Get("Content-Type"))
			assert.Equal(t, `attachment; filename="`+tc.filename+`"`, w.Header().Get("Content-Disposition"))
			assert.True(t, bytes.HasPrefix(w.Body.Bytes(), tc.magic))
		})
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := new(mockReportService)

	w := do(reportRoutes(svc, nil), http.MethodGet, "/reports/export?format=csv", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Report", mock.Anything, mock.Anything, mock.Anything)
}

func TestPushSheetsNotConfigured(t *testing.T) {
	w := do(reportRoutes(new(mockReportService), nil), http.MethodPost, "/reports/sheets", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
}

func TestPushSheets(t *testing.T) {
	svc := new(mockReportService)
	svc.On("Report", mock.Anything, testUser, mock.Anything).Return(sampleReport(), nil).Once()
	sheets := new(mockSheets)
	sheets.On("Push", mock.Anything, sampleReport(), testNow).
		Return(export.SheetsResult{Orders: 1}, nil).Once()

	w := do(reportRoutes(svc, sheets), http.MethodPost, "/reports/sheets", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"orders":1`)
	assert.NotContains(t, w.Body.String(), "spreadsheet")
	sheets.AssertExpectations(t)
}

func TestHistory(t *testing.T) {
	svc := new(mockReportService)
	svc.On("History", mock.Anything, "u1", 0).Return([]models.DailyReport{{Date: "2024-03-14"}}, nil).Once()
	svc.On("History", mock.Anything, "u1", 7).Return([]models.DailyReport{}, nil).Once()

	h := reportRoutes(svc, nil)

	w := do(h, http.MethodGet, "/reports/daily", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"date":"2024-03-14"`)

	w = do(h, http.MethodGet, "/reports/daily?limit=7", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(h, http.MethodGet, "/reports/daily?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}
