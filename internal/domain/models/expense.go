package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Predefined expense categories. Any other non-empty label is accepted as a
// custom category.
const (
	ExpenseRent      = "Rent"
	ExpenseSalary    = "Salary"
	ExpenseUtilities = "Utilities"
	ExpenseOther     = "Other"
)

// ExpenseCategories lists the predefined categories offered by the UI.
var ExpenseCategories = []string{ExpenseRent, ExpenseSalary, ExpenseUtilities, ExpenseOther}

// Expense is a business cost recorded by a shop.
type Expense struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ExpenseUpdate carries the editable expense fields. Nil fields are left
// untouched.
type ExpenseUpdate struct {
	Category *string
	Amount   *decimal.Decimal
	Date     *time.Time
}

// Empty reports whether the update would change nothing.
func (u ExpenseUpdate) Empty() bool {
	return u.Category == nil && u.Amount == nil && u.Date == nil
}
