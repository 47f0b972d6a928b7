package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyReport is the nightly snapshot of a shop's figures for one day.
type DailyReport struct {
	UserID        string          `json:"userId"`
	Date          string          `json:"date"`
	TotalOrders   int             `json:"totalOrders"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	TotalBalance  decimal.Decimal `json:"totalBalance"`
	TotalPending  decimal.Decimal `json:"totalPending"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// NewDailyReport copies the headline figures of s into a snapshot.
func NewDailyReport(userID, day string, s Summary, createdAt time.Time) DailyReport {
	return DailyReport{
		UserID:        userID,
		Date:          day,
		TotalOrders:   s.TotalOrders,
		TotalIncome:   s.TotalIncome,
		TotalExpenses: s.TotalExpenses,
		NetProfit:     s.NetProfit,
		TotalPaid:     s.TotalPaid,
		TotalBalance:  s.TotalBalance,
		TotalPending:  s.TotalPending,
		CreatedAt:     createdAt,
	}
}
