package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/mamadbah2/washify/internal/domain/models"
	"github.com/mamadbah2/washify/internal/service/expenses"
	"github.com/mamadbah2/washify/internal/service/export"
	"github.com/mamadbah2/washify/internal/service/orders"
	"github.com/mamadbah2/washify/internal/service/users"
)

var (
	testUser  = models.User{ID: "u1", Email: "ada@example.com", FullName: "Ada", ShopName: "Sparkle"}
	testNow   = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	testClock = Clock{Now: func() time.Time { return testNow }, Location: time.UTC}
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine returns an engine whose requests run as testUser.
func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(userKey, testUser)
		c.Next()
	})
	return r
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Authenticate(ctx context.Context, token string) (models.User, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserService) Signup(ctx context.Context, in users.SignupInput) (models.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserService) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (users.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(users.Session), args.Error(1)
}

func (m *mockUserService) Profile(ctx context.Context, userID string) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID string, u models.ProfileUpdate) (models.User, error) {
	args := m.Called(ctx, userID, u)
	return args.Get(0).(models.User), args.Error(1)
}

type mockOrderService struct{ mock.Mock }

func (m *mockOrderService) Create(ctx context.Context, userID string, in orders.CreateInput) (models.Order, error) {
	args := m.Called(ctx, userID, in)
	return args.Get(0).(models.Order), args.Error(1)
}

func (m *mockOrderService) List(ctx context.Context, userID string, f models.DateFilter) ([]models.Order, error) {
	args := m.Called(ctx, userID, f)
	list, _ := args.Get(0).([]models.Order)
	return list, args.Error(1)
}

func (m *mockOrderService) Get(ctx context.Context, userID, id string) (models.Order, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(models.Order), args.Error(1)
}

func (m *mockOrderService) Update(ctx context.Context, userID, id string, u models.OrderUpdate) (models.Order, error) {
	args := m.Called(ctx, userID, id, u)
	return args.Get(0).(models.Order), args.Error(1)
}

func (m *mockOrderService) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockOrderService) PickupTag(ctx context.Context, userID, id string) ([]byte, error) {
	args := m.Called(ctx, userID, id)
	png, _ := args.Get(0).([]byte)
	return png, args.Error(1)
}

type mockExpenseService struct{ mock.Mock }

func (m *mockExpenseService) Create(ctx context.Context, userID string, in expenses.CreateInput) (models.Expense, error) {
	args := m.Called(ctx, userID, in)
	return args.Get(0).(models.Expense), args.Error(1)
}

func (m *mockExpenseService) List(ctx context.Context, userID string, f models.DateFilter) ([]models.Expense, error) {
	args := m.Called(ctx, userID, f)
	list, _ := args.Get(0).([]models.Expense)
	return list, args.Error(1)
}

func (m *mockExpenseService) Get(ctx context.Context, userID, id string) (models.Expense, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(models.Expense), args.Error(1)
}

func (m *mockExpenseService) Update(ctx context.Context, userID, id string, u models.ExpenseUpdate) (models.Expense, error) {
	args := m.Called(ctx, userID, id, u)
	return args.Get(0).(models.Expense), args.Error(1)
}

func (m *mockExpenseService) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type mockReportService struct{ mock.Mock }

func (m *mockReportService) Dashboard(ctx context.Context, userID string, f models.DateFilter) (models.Summary, error) {
	args := m.Called(ctx, userID, f)
	return args.Get(0).(models.Summary), args.Error(1)
}

func (m *mockReportService) Report(ctx context.Context, user models.User, f models.DateFilter) (models.Report, error) {
	args := m.Called(ctx, user, f)
	return args.Get(0).(models.Report), args.Error(1)
}

func (m *mockReportService) History(ctx context.Context, userID string, limit int) ([]models.DailyReport, error) {
	args := m.Called(ctx, userID, limit)
	list, _ := args.Get(0).([]models.DailyReport)
	return list, args.Error(1)
}

type mockSheets struct{ mock.Mock }

func (m *mockSheets) Push(ctx context.Context, r models.Report, generatedAt time.Time) (export.SheetsResult, error) {
	args := m.Called(ctx, r, generatedAt)
	return args.Get(0).(export.SheetsResult), args.Error(1)
}
