package reporting

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mamadbah2/washify/internal/domain/models"
)

type mockOrders struct{ mock.Mock }

func (m *mockOrders) ListOrders(ctx context.Context, userID string, r models.DateRange) ([]models.Order, error) {
	args := m.Called(ctx, userID, r)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

type mockExpenses struct{ mock.Mock }

func (m *mockExpenses) ListExpenses(ctx context.Context, userID string, r models.DateRange) ([]models.Expense, error) {
	args := m.Called(ctx, userID, r)
	expenses, _ := args.Get(0).([]models.Expense)
	return expenses, args.Error(1)
}

type mockSnapshots struct{ mock.Mock }

func (m *mockSnapshots) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	return m.Called(ctx, report).Error(0)
}

func (m *mockSnapshots) FindDailyReports(ctx context.Context, userID string, limit int) ([]models.DailyReport, error) {
	args := m.Called(ctx, userID, limit)
	reports, _ := args.Get(0).([]models.DailyReport)
	return reports, args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) GetSummary(ctx context.Context, userID, key string) (models.Summary, int64, bool, error) {
	args := m.Called(ctx, userID, key)
	summary, _ := args.Get(0).(models.Summary)
	version, _ := args.Get(1).(int64)
	return summary, version, args.Bool(2), args.Error(3)
}

func (m *mockCache) SetSummary(ctx context.Context, userID string, version int64, key string, summary models.Summary) error {
	return m.Called(ctx, userID, version, key, summary).Error(0)
}
