// Package export renders reports as Excel workbooks, PDF documents and
// Google Sheets rows.
package export

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/washify/internal/domain/models"
)

// ErrUnsupportedFormat is returned for export formats other than xlsx and pdf.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is a downloadable report format.
type Format string

const (
	FormatExcel Format = "xlsx"
	FormatPDF   Format = "pdf"
)

// ParseFormat reads a format name, case-insensitively.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatExcel, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
	}
}

// ContentType is the MIME type of files in format f.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Filename builds a download name such as sparkle-march-2024.xlsx.
func Filename(r models.Report, f Format) string {
	base := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(r.ShopName+" "+r.Period), "-"), "-")
	if base == "" {
		base = "report"
	}
	return base + "." + string(f)
}

// Render encodes r in format f.
func Render(r models.Report, f Format) ([]byte, error) {
	switch f {
	case FormatExcel:
		return Excel(r)
	case FormatPDF:
		return PDF(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

type metric struct {
	label  string
	amount decimal.Decimal
}

// amounts lists the money figures of s in display order.
func amounts(s models.Summary) []metric {
	return []metric{
		{"Total income", s.TotalIncome},
		{"Total expenses", s.TotalExpenses},
		{"Net profit", s.NetProfit},
		{"Total paid", s.TotalPaid},
		{"Total balance", s.TotalBalance},
		{"Total pending", s.TotalPending},
	}
}
