package reporting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/washify/internal/domain/models"
)

var march = models.DateFilter{Mode: models.FilterMonth, Month: 3, Year: 2024, Location: time.UTC}

func fixtures() ([]models.Order, []models.Expense) {
	in := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	later := time.Date(2024, time.March, 20, 9, 0, 0, 0, time.UTC)
	out := time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{ID: "o1", Customer: "Ada", Service: models.ServiceWashing, Price: dec("100"), PaymentStatus: models.PaymentPaid, Date: in},
		{ID: "o2", Customer: "Bola", Service: models.ServiceIroning, Price: dec("50"), PaymentStatus: models.PaymentPending, Date: later},
		{ID: "o3", Customer: "Chi", Service: models.ServiceIroning, Price: dec("999"), PaymentStatus: models.PaymentPaid, Date: out},
	}
	expenses := []models.Expense{
		{ID: "e1", Category: models.ExpenseRent, Amount: dec("30"), Date: in},
	}
	return orders, expenses
}

func TestDashboardComputesAndCaches(t *testing.T) {
	orders, expenses := fixtures()
	ordersRepo, expensesRepo, cache := new(mockOrders), new(mockExpenses), new(mockCache)

	ordersRepo.On("ListOrders", mock.Anything, "u1", march.Bounds()).Return(orders, nil).Once()
	expensesRepo.On("ListExpenses", mock.Anything, "u1", march.Bounds()).Return(expenses, nil).Once()
	cache.On("GetSummary", mock.Anything, "u1", "month:2024-03").Return(models.Summary{}, int64(4), false, nil).Once()
	cache.On("SetSummary", mock.Anything, "u1", int64(4), "month:2024-03", mock.AnythingOfType("models.Summary")).Return(nil).Once()

	svc := NewService(ordersRepo, expensesRepo, nil, cache, time.UTC, nil)
	s, err := svc.Dashboard(context.Background(), "u1", march)

	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalOrders)
	assert.True(t, s.TotalIncome.Equal(dec("150")))
	assert.True(t, s.TotalBalance.Equal(dec("70")))
	ordersRepo.AssertExpectations(t)
	expensesRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestDashboardCacheHitSkipsStorage(t *testing.T) {
	ordersRepo, expensesRepo, cache := new(mockOrders), new(mockExpenses), new(mockCache)
	cached := models.Summary{TotalOrders: 7}
	cache.On("GetSummary", mock.Anything, "u1", "month:2024-03").Return(cached, int64(0), true, nil).Once()

	svc := NewService(ordersRepo, expensesRepo, nil, cache, time.UTC, nil)
	s, err := svc.Dashboard(context.Background(), "u1", march)

	require.NoError(t, err)
	assert.Equal(t, 7, s.TotalOrders)
	ordersRepo.AssertNotCalled(t, "ListOrders", mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboardCacheErrorsAreIgnored(t *testing.T) {
	orders, expenses := fixtures()
	ordersRepo, expensesRepo, cache := new(mockOrders), new(mockExpenses), new(mockCache)
	ordersRepo.On("ListOrders", mock.Anything, "u1", mock.Anything).Return(orders, nil)
	expensesRepo.On("ListExpenses", mock.Anything, "u1", mock.Anything).Return(expenses, nil)
	cache.On("GetSummary", mock.Anything, "u1", mock.Anything).Return(models.Summary{}, int64(0), false, errors.New("redis down"))

	svc := NewService(ordersRepo, expensesRepo, nil, cache, time.UTC, nil)
	s, err := svc.Dashboard(context.Background(), "u1", march)

	require.NoError(t, err)
	assert.True(t, s.NetProfit.Equal(dec("120")))
	cache.AssertNotCalled(t, "SetSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboardCacheWriteErrorsAreIgnored(t *testing.T) {
	orders, expenses := fixtures()
	ordersRepo, expensesRepo, cache := new(mockOrders), new(mockExpenses), new(mockCache)
	ordersRepo.On("ListOrders", mock.Anything, "u1", mock.Anything).Return(orders, nil)
	expensesRepo.On("ListExpenses", mock.Anything, "u1", mock.Anything).Return(expenses, nil)
	cache.On("GetSummary", mock.Anything, "u1", mock.Anything).Return(models.Summary{}, int64(1), false, nil)
	cache.On("SetSummary", mock.Anything, "u1", int64(1), mock.Anything, mock.Anything).Return(errors.New("redis down"))

	svc := NewService(ordersRepo, expensesRepo, nil, cache, time.UTC, nil)
	s, err := svc.Dashboard(context.Background(), "u1", march)

	require.NoError(t, err)
	assert.True(t, s.NetProfit.Equal(dec("120")))
}

func TestDashboardFailsWhenEitherSourceFails(t *testing.T) {
	orders, _ := fixtures()
	ordersRepo, expensesRepo := new(mockOrders), new(mockExpenses)
	ordersRepo.On("ListOrders", mock.Anything, "u1", mock.Anything).Return(orders, nil)
	expensesRepo.On("ListExpenses", mock.Anything, "u1", mock.Anything).Return(nil, assert.AnError)

	svc := NewService(ordersRepo, expensesRepo, nil, nil, time.UTC, nil)
	_, err := svc.Dashboard(context.Background(), "u1", march)

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestReportSortsNewestFirst(t *testing.T) {
	orders, expenses := fixtures()
	ordersRepo, expensesRepo := new(mockOrders), new(mockExpenses)
	ordersRepo.On("ListOrders", mock.Anything, "u1", mock.Anything).Return(orders, nil)
	expensesRepo.On("ListExpenses", mock.Anything, "u1", mock.Anything).Return(expenses, nil)

	svc := NewService(ordersRepo, expensesRepo, nil, nil, time.UTC, nil)
	r, err := svc.Report(context.Background(), models.User{ID: "u1", ShopName: "Sparkle"}, march)

	require.NoError(t, err)
	assert.Equal(t, "Sparkle", r.ShopName)
	assert.Equal(t, "March 2024", r.Period)
	require.Len(t, r.Orders, 2)
	assert.Equal(t, "o2", r.Orders[0].ID)
	assert.Equal(t, "o1", r.Orders[1].ID)
	assert.Len(t, r.Expenses, 1)
	assert.True(t, r.Summary.TotalPending.Equal(dec("50")))
	assert.Equal(t, "u1", r.UserID)
}

func TestReportDaysMatchDailySeries(t *testing.T) {
	lagos := time.FixedZone("WAT", 60*60)
	created := time.Date(2024, time.March, 1, 0, 30, 0, 0, lagos).UTC()
	ordersRepo, expensesRepo := new(mockOrders), new(mockExpenses)
	ordersRepo.On("ListOrders", mock.Anything, "u1", mock.Anything).
		Return([]models.Order{{ID: "o1", Service: models.ServiceWashing, Price: dec("100"), PaymentStatus: models.PaymentPaid, Date: created}}, nil)
	expensesRepo.On("ListExpenses", mock.Anything, "u1", mock.Anything).Return(nil, nil)

	f := models.DateFilter{Mode: models.FilterMonth, Month: 3, Year: 2024, Location: lagos}
	svc := NewService(ordersRepo, expensesRepo, nil, nil, lagos, nil)
	r, err := svc.Report(context.Background(), models.User{ID: "u1", ShopName: "Sparkle"}, f)

	require.NoError(t, err)
	require.Len(t, r.Orders, 1)
	require.Len(t, r.Summary.Daily, 1)
	assert.Equal(t, "2024-03-01", r.Summary.Daily[0].Date)
	assert.Equal(t, r.Summary.Daily[0].Date, r.Day(r.Orders[0].Date))
}

func TestSaveDailySnapshot(t *testing.T) {
	orders, expenses := fixtures()
	ordersRepo, expensesRepo, store := new(mockOrders), new(mockExpenses), new(mockSnapshots)
	ordersRepo.On("ListOrders", mock.Anything, "u1", mock.Anything).Return(orders, nil)
	expensesRepo.On("ListExpenses", mock.Anything, "u1", mock.Anything).Return(expenses, nil)
	store.On("SaveDailyReport", mock.Anything, mock.MatchedBy(func(r models.DailyReport) bool {
		return r.UserID == "u1" && r.Date == "2024-03-10" && r.TotalOrders == 1 && r.NetProfit.Equal(dec("70"))
	})).Return(nil).Once()

	svc := NewService(ordersRepo, expensesRepo, store, nil, time.UTC, nil)
	report, err := svc.SaveDailySnapshot(context.Background(), "u1", time.Date(2024, time.March, 10, 21, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", report.Date)
	assert.True(t, report.TotalIncome.Equal(dec("100")))
	store.AssertExpectations(t)
}

func TestHistoryDefaultsLimit(t *testing.T) {
	store := new(mockSnapshots)
	store.On("FindDailyReports", mock.Anything, "u1", defaultHistoryLimit).Return([]models.DailyReport{{Date: "2024-03-10"}}, nil).Once()

	svc := NewService(new(mockOrders), new(mockExpenses), store, nil, time.UTC, nil)
	reports, err := svc.History(context.Background(), "u1", 0)

	require.NoError(t, err)
	assert.Len(t, reports, 1)
	store.AssertExpectations(t)
}

func TestDailyMessage(t *testing.T) {
	r := models.DailyReport{
		Date:          "2024-03-10",
		TotalOrders:   2,
		TotalIncome:   dec("150"),
		TotalExpenses: dec("30"),
		NetProfit:     dec("120"),
		TotalPaid:     dec("100"),
		TotalPending:  dec("50"),
		TotalBalance:  dec("70"),
	}

	msg := DailyMessage("Sparkle", r)

	assert.True(t, strings.HasPrefix(msg, "*Sparkle* daily summary"))
	assert.Contains(t, msg, "Sunday 10 March 2024")
	assert.Contains(t, msg, "Orders: 2")
	assert.Contains(t, msg, "Net profit: ₦120.00")
	assert.Contains(t, msg, "Balance: ₦70.00")
}
