package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/mamadbah2/washify/internal/domain/models"
	"github.com/mamadbah2/washify/pkg/money"
)

const (
	pdfFont      = "Helvetica"
	pdfRowHeight = 7.0
)

// PDF renders r as an A4 document: a header with the shop and period, the
// summary table, then the orders and expenses tables.
func PDF(r models.Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.ShopName+" report", true)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 10, tr(r.ShopName), "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 11)
	pdf.CellFormat(0, 7, tr("Report for "+r.Period), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	section(pdf, "Summary")
	table(pdf, tr, []column{{"Figure", 70, "L"}, {"Value", 50, "R"}}, summaryRows(r.Summary))

	pdf.Ln(4)
	section(pdf, fmt.Sprintf("Orders (%d)", len(r.Orders)))
	orderRows := make([][]string, 0, len(r.Orders))
	for _, o := range r.Orders {
		orderRows = append(orderRows, []string{
			r.Day(o.Date),
			o.Customer,
			string(o.Service),
			money.FormatCode(o.Price),
			string(o.PaymentStatus),
		})
	}
	table(pdf, tr, []column{
		{"Date", 28, "L"},
		{"Customer", 55, "L"},
		{"Service", 35, "L"},
		{"Price", 40, "R"},
		{"Status", 27, "L"},
	}, orderRows)

	pdf.Ln(4)
	section(pdf, fmt.Sprintf("Expenses (%d)", len(r.Expenses)))
	expenseRows := make([][]string, 0, len(r.Expenses))
	for _, e := range r.Expenses {
		expenseRows = append(expenseRows, []string{
			r.Day(e.Date),
			e.Category,
			money.FormatCode(e.Amount),
		})
	}
	table(pdf, tr, []column{{"Date", 28, "L"}, {"Category", 70, "L"}, {"Amount", 40, "R"}}, expenseRows)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type column struct {
	title string
	width float64
	align string
}

func summaryRows(s models.Summary) [][]string {
	rows := [][]string{{"Total orders", fmt.Sprintf("%d", s.TotalOrders)}}
	for _, m := range amounts(s) {
		rows = append(rows, []string{m.label, money.FormatCode(m.amount)})
	}
	return rows
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont(pdfFont, "B", 13)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
}

func table(pdf *fpdf.Fpdf, tr func(string) string, cols []column, rows [][]string) {
	pdf.SetFont(pdfFont, "B", 10)
	pdf.SetFillColor(230, 236, 242)
	for _, c := range cols {
		pdf.CellFormat(c.width, pdfRowHeight, c.title, "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(pdfFont, "", 10)
	if len(rows) == 0 {
		total := 0.0
		for _, c := range cols {
			total += c.width
		}
		pdf.CellFormat(total, pdfRowHeight, "No records", "1", 1, "C", false, 0, "")
		return
	}
	for _, row := range rows {
		for i, c := range cols {
			pdf.CellFormat(c.width, pdfRowHeight, tr(row[i]), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}
