package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/washify/internal/domain/models"
)

// SheetWriter appends rows to named tabs of a spreadsheet.
type SheetWriter interface {
	EnsureSheet(ctx context.Context, title string) (bool, error)
	AppendRows(ctx context.Context, sheet string, rows [][]interface{}) error
}

var (
	summaryHeader = []interface{}{"User ID", "Shop", "Generated at", "Period", "Total orders", "Total income", "Total expenses", "Net profit", "Total paid", "Total balance", "Total pending"}
	ordersHeader  = []interface{}{"User ID", "Shop", "Period", "Date", "Customer", "Service", "Price", "Payment status", "Reference"}
	expenseHeader = []interface{}{"User ID", "Shop", "Period", "Date", "Category", "Amount", "Reference"}
)

// SheetsResult describes what a push appended.
type SheetsResult struct {
	Orders   int `json:"orders"`
	Expenses int `json:"expenses"`
}

// SheetsExporter pushes reports to a Google spreadsheet shared by every
// shop. The spreadsheet is an operator ledger: each row carries the user id
// and shop it belongs to, and its link is never handed to users.
type SheetsExporter struct {
	writer SheetWriter
	logger *zap.Logger
}

// NewSheetsExporter wires an exporter on top of writer.
func NewSheetsExporter(writer SheetWriter, logger *zap.Logger) *SheetsExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetsExporter{writer: writer, logger: logger}
}

// Push appends the summary row and every record of r. Tabs are created with a
// header row on first use.
func (e *SheetsExporter) Push(ctx context.Context, r models.Report, generatedAt time.Time) (SheetsResult, error) {
	if r.UserID == "" {
		return SheetsResult{}, errors.New("push report: missing user id")
	}

	s := r.Summary
	summary := []interface{}{
		r.UserID, r.ShopName, generatedAt.Format(time.RFC3339), r.Period, s.TotalOrders,
		s.TotalIncome.String(), s.TotalExpenses.String(), s.NetProfit.String(),
		s.TotalPaid.String(), s.TotalBalance.String(), s.TotalPending.String(),
	}

	orders := make([][]interface{}, 0, len(r.Orders))
	for _, o := range r.Orders {
		orders = append(orders, []interface{}{
			r.UserID, r.ShopName, r.Period, r.Day(o.Date), o.Customer, string(o.Service),
			o.Price.String(), string(o.PaymentStatus), o.ID,
		})
	}

	expenses := make([][]interface{}, 0, len(r.Expenses))
	for _, x := range r.Expenses {
		expenses = append(expenses, []interface{}{
			r.UserID, r.ShopName, r.Period, r.Day(x.Date), x.Category, x.Amount.String(), x.ID,
		})
	}

	tabs := []struct {
		name   string
		header []interface{}
		rows   [][]interface{}
	}{
		{summarySheet, summaryHeader, [][]interface{}{summary}},
		{ordersSheet, ordersHeader, orders},
		{expensesSheet, expenseHeader, expenses},
	}
	for _, tab := range tabs {
		if err := e.append(ctx, tab.name, tab.header, tab.rows); err != nil {
			return SheetsResult{}, err
		}
	}

	e.logger.Info("report pushed to sheets", zap.String("user_id", r.UserID), zap.String("period", r.Period), zap.Int("orders", len(orders)), zap.Int("expenses", len(expenses)))
	return SheetsResult{Orders: len(orders), Expenses: len(expenses)}, nil
}

func (e *SheetsExporter) append(ctx context.Context, sheet string, header []interface{}, rows [][]interface{}) error {
	created, err := e.writer.EnsureSheet(ctx, sheet)
	if err != nil {
		return fmt.Errorf("prepare %s sheet: %w", sheet, err)
	}
	if created {
		rows = append([][]interface{}{header}, rows...)
	}
	if err := e.writer.AppendRows(ctx, sheet, rows); err != nil {
		return fmt.Errorf("append to %s sheet: %w", sheet, err)
	}
	return nil
}
