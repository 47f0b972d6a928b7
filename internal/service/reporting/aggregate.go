package reporting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/washify/internal/domain/models"
)

// FilterOrders keeps the orders whose date the filter includes.
func FilterOrders(orders []models.Order, f models.DateFilter) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if f.Includes(o.Date) {
			out = append(out, o)
		}
	}
	return out
}

// FilterExpenses keeps the expenses whose date the filter includes.
func FilterExpenses(expenses []models.Expense, f models.DateFilter) []models.Expense {
	out := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Includes(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// Summarize reduces already filtered records to dashboard figures. The result
// does not depend on input order. Daily buckets are keyed by calendar day in
// loc.
func Summarize(orders []models.Order, expenses []models.Expense, loc *time.Location) models.Summary {
	if loc == nil {
		loc = time.UTC
	}

	s := models.Summary{
		TotalOrders:   len(orders),
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalPaid:     decimal.Zero,
		TotalPending:  decimal.Zero,
	}

	services := map[string]*models.NamedAmount{}
	categories := map[string]*models.NamedAmount{}
	days := map[string]*models.DailyAmount{}

	bucket := func(t time.Time) *models.DailyAmount {
		key := t.In(loc).Format(models.DateLayout)
		d, ok := days[key]
		if !ok {
			d = &models.DailyAmount{Date: key, Income: decimal.Zero, Expenses: decimal.Zero}
			days[key] = d
		}
		return d
	}

	for _, o := range orders {
		s.TotalIncome = s.TotalIncome.Add(o.Price)
		switch o.PaymentStatus {
		case models.PaymentPaid:
			s.TotalPaid = s.TotalPaid.Add(o.Price)
		case models.PaymentPending:
			s.TotalPending = s.TotalPending.Add(o.Price)
		}

		add(services, string(o.Service), o.Price)
		if !o.Date.IsZero() {
			d := bucket(o.Date)
			d.Income = d.Income.Add(o.Price)
		}
	}

	for _, e := range expenses {
		s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
		add(categories, e.Category, e.Amount)
		if !e.Date.IsZero() {
			d := bucket(e.Date)
			d.Expenses = d.Expenses.Add(e.Amount)
		}
	}

	s.NetProfit = s.TotalIncome.Sub(s.TotalExpenses)
	s.TotalBalance = s.TotalPaid.Sub(s.TotalExpenses)

	s.ByService = ranked(services)
	s.ByCategory = ranked(categories)

	s.Daily = make([]models.DailyAmount, 0, len(days))
	for _, d := range days {
		s.Daily = append(s.Daily, *d)
	}
	sort.Slice(s.Daily, func(i, j int) bool { return s.Daily[i].Date < s.Daily[j].Date })

	return s
}

func add(groups map[string]*models.NamedAmount, name string, amount decimal.Decimal) {
	g, ok := groups[name]
	if !ok {
		g = &models.NamedAmount{Name: name, Amount: decimal.Zero}
		groups[name] = g
	}
	g.Count++
	g.Amount = g.Amount.Add(amount)
}

// ranked sorts groups by amount, largest first, then by name.
func ranked(groups map[string]*models.NamedAmount) []models.NamedAmount {
	out := make([]models.NamedAmount, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}
