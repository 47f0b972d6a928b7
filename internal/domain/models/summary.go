package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary holds the dashboard figures computed over filtered records.
type Summary struct {
	TotalOrders   int             `json:"totalOrders"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	TotalBalance  decimal.Decimal `json:"totalBalance"`
	TotalPending  decimal.Decimal `json:"totalPending"`

	ByService  []NamedAmount `json:"byService"`
	ByCategory []NamedAmount `json:"byCategory"`
	Daily      []DailyAmount `json:"daily"`
}

// NamedAmount is an amount aggregated under a label (service or category).
type NamedAmount struct {
	Name   string          `json:"name"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// DailyAmount is one point of the per-day income/expense series.
type DailyAmount struct {
	Date     string          `json:"date"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// Report bundles a summary with the records it was computed from. Location
// is the shop time zone the summary's calendar days were computed in.
type Report struct {
	UserID   string         `json:"-"`
	ShopName string         `json:"shopName"`
	Period   string         `json:"period"`
	Summary  Summary        `json:"summary"`
	Orders   []Order        `json:"orders"`
	Expenses []Expense      `json:"expenses"`
	Location *time.Location `json:"-"`
}

// Day formats t as the calendar day it falls on in the report's time zone.
func (r Report) Day(t time.Time) string {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}
