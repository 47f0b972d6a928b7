package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/washify/internal/domain/models"
)

const (
	summarySheet  = "Summary"
	ordersSheet   = "Orders"
	expensesSheet = "Expenses"

	// numFmt 4 is the built-in "#,##0.00".
	moneyNumFmt = 4
)

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// Excel renders r as a workbook with Summary, Orders and Expenses sheets. The
// summary sheet charts income against expenses per day and income by
// service.
func Excel(r models.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	w := &workbook{f: f, bold: bold, money: moneyStyle}
	w.summary(r, title)
	w.orders(r)
	w.expenses(r)
	if w.err != nil {
		return nil, w.err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// workbook accumulates the first error so the layout code stays linear.
type workbook struct {
	f     *excelize.File
	bold  int
	money int
	err   error
}

func (w *workbook) row(sheet string, rowNum int, values ...interface{}) {
	if w.err != nil {
		return
	}
	if err := w.f.SetSheetRow(sheet, cell(1, rowNum), &values); err != nil {
		w.err = fmt.Errorf("write %s row %d: %w", sheet, rowNum, err)
	}
}

func (w *workbook) style(sheet, from, to string, style int) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellStyle(sheet, from, to, style); err != nil {
		w.err = fmt.Errorf("style %s %s:%s: %w", sheet, from, to, err)
	}
}

func (w *workbook) chart(sheet, anchor string, chart *excelize.Chart) {
	if w.err != nil {
		return
	}
	if err := w.f.AddChart(sheet, anchor, chart); err != nil {
		w.err = fmt.Errorf("add chart to %s: %w", sheet, err)
	}
}

func (w *workbook) summary(r models.Report, titleStyle int) {
	const sheet = summarySheet
	s := r.Summary

	w.row(sheet, 1, r.ShopName)
	w.style(sheet, "A1", "A1", titleStyle)
	w.row(sheet, 2, "Period", r.Period)
	w.style(sheet, "A2", "A2", w.bold)

	w.row(sheet, 4, "Total orders", s.TotalOrders)
	rowNum := 5
	for _, m := range amounts(s) {
		w.row(sheet, rowNum, m.label, m.amount.InexactFloat64())
		rowNum++
	}
	w.style(sheet, "A4", cell(1, rowNum-1), w.bold)
	w.style(sheet, "B5", cell(2, rowNum-1), w.money)

	// Daily series feeding the column chart.
	rowNum++
	dailyHeader := rowNum
	w.row(sheet, dailyHeader, "Date", "Income", "Expenses")
	w.style(sheet, cell(1, dailyHeader), cell(3, dailyHeader), w.bold)
	for _, d := range s.Daily {
		rowNum++
		w.row(sheet, rowNum, d.Date, d.Income.InexactFloat64(), d.Expenses.InexactFloat64())
	}
	dailyLast := rowNum
	if dailyLast > dailyHeader {
		w.style(sheet, cell(2, dailyHeader+1), cell(3, dailyLast), w.money)
	}

	// Income per service feeding the pie chart.
	rowNum += 2
	serviceHeader := rowNum
	w.row(sheet, serviceHeader, "Service", "Orders", "Income")
	w.style(sheet, cell(1, serviceHeader), cell(3, serviceHeader), w.bold)
	for _, g := range s.ByService {
		rowNum++
		w.row(sheet, rowNum, g.Name, g.Count, g.Amount.InexactFloat64())
	}
	serviceLast := rowNum

	rowNum += 2
	categoryHeader := rowNum
	w.row(sheet, categoryHeader, "Expense category", "Entries", "Amount")
	w.style(sheet, cell(1, categoryHeader), cell(3, categoryHeader), w.bold)
	for _, g := range s.ByCategory {
		rowNum++
		w.row(sheet, rowNum, g.Name, g.Count, g.Amount.InexactFloat64())
	}

	if w.err == nil {
		w.err = w.f.SetColWidth(sheet, "A", "A", 22)
	}
	if w.err == nil {
		w.err = w.f.SetColWidth(sheet, "B", "C", 16)
	}

	if dailyLast > dailyHeader {
		categories := fmt.Sprintf("%s!$A$%d:$A$%d", sheet, dailyHeader+1, dailyLast)
		w.chart(sheet, "E2", &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{
				{
					Name:       fmt.Sprintf("%s!$B$%d", sheet, dailyHeader),
					Categories: categories,
					Values:     fmt.Sprintf("%s!$B$%d:$B$%d", sheet, dailyHeader+1, dailyLast),
				},
				{
					Name:       fmt.Sprintf("%s!$C$%d", sheet, dailyHeader),
					Categories: categories,
					Values:     fmt.Sprintf("%s!$C$%d:$C$%d", sheet, dailyHeader+1, dailyLast),
				},
			},
			Title:  []excelize.RichTextRun{{Text: "Income vs expenses"}},
			Legend: excelize.ChartLegend{Position: "bottom"},
		})
	}

	if serviceLast > serviceHeader {
		w.chart(sheet, "E20", &excelize.Chart{
			Type: excelize.Pie,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!$C$%d", sheet, serviceHeader),
				Categories: fmt.Sprintf("%s!$A$%d:$A$%d", sheet, serviceHeader+1, serviceLast),
				Values:     fmt.Sprintf("%s!$C$%d:$C$%d", sheet, serviceHeader+1, serviceLast),
			}},
			Title:  []excelize.RichTextRun{{Text: "Income by service"}},
			Legend: excelize.ChartLegend{Position: "right"},
		})
	}
}

func (w *workbook) orders(r models.Report) {
	orders := r.Orders
	if w.err != nil {
		return
	}
	if _, err := w.f.NewSheet(ordersSheet); err != nil {
		w.err = fmt.Errorf("create %s sheet: %w", ordersSheet, err)
		return
	}

	w.row(ordersSheet, 1, "Date", "Customer", "Service", "Price", "Payment status", "Reference")
	w.style(ordersSheet, "A1", "F1", w.bold)
	for i, o := range orders {
		w.row(ordersSheet, i+2, r.Day(o.Date), o.Customer, string(o.Service), o.Price.InexactFloat64(), string(o.PaymentStatus), o.ID)
	}
	if len(orders) > 0 {
		w.style(ordersSheet, "D2", cell(4, len(orders)+1), w.money)
	}
	if w.err == nil {
		w.err = w.f.SetColWidth(ordersSheet, "A", "F", 16)
	}
}

func (w *workbook) expenses(r models.Report) {
	expenses := r.Expenses
	if w.err != nil {
		return
	}
	if _, err := w.f.NewSheet(expensesSheet); err != nil {
		w.err = fmt.Errorf("create %s sheet: %w", expensesSheet, err)
		return
	}

	w.row(expensesSheet, 1, "Date", "Category", "Amount", "Reference")
	w.style(expensesSheet, "A1", "D1", w.bold)
	for i, e := range expenses {
		w.row(expensesSheet, i+2, r.Day(e.Date), e.Category, e.Amount.InexactFloat64(), e.ID)
	}
	if len(expenses) > 0 {
		w.style(expensesSheet, "C2", cell(3, len(expenses)+1), w.money)
	}
	if w.err == nil {
		w.err = w.f.SetColWidth(expensesSheet, "A", "D", 16)
	}
}
