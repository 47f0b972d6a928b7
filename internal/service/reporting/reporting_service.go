package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/washify/internal/domain/models"
)

const defaultHistoryLimit = 30

// OrderSource loads a user's orders, optionally narrowed to a date range.
type OrderSource interface {
	ListOrders(ctx context.Context, userID string, r models.DateRange) ([]models.Order, error)
}

// ExpenseSource loads a user's expenses, optionally narrowed to a date range.
type ExpenseSource interface {
	ListExpenses(ctx context.Context, userID string, r models.DateRange) ([]models.Expense, error)
}

// SnapshotStore persists nightly daily reports.
type SnapshotStore interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
	FindDailyReports(ctx context.Context, userID string, limit int) ([]models.DailyReport, error)
}

// SummaryCache memoizes dashboard summaries per user and filter key.
type SummaryCache interface {
	GetSummary(ctx context.Context, userID, key string) (models.Summary, int64, bool, error)
	SetSummary(ctx context.Context, userID string, version int64, key string, summary models.Summary) error
}

// Service computes dashboard figures and report payloads from stored records.
type Service struct {
	orders    OrderSource
	expenses  ExpenseSource
	snapshots SnapshotStore
	cache     SummaryCache
	location  *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new reporting service instance. A nil cache disables
// summary caching.
func NewService(orders OrderSource, expenses ExpenseSource, snapshots SnapshotStore, cache SummaryCache, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		orders:    orders,
		expenses:  expenses,
		snapshots: snapshots,
		cache:     cache,
		location:  location,
		logger:    logger,
		now:       time.Now,
	}
}

// Location returns the shop time zone used for calendar comparisons.
func (s *Service) Location() *time.Location {
	return s.location
}

// Dashboard returns the summary for the user's records selected by f.
func (s *Service) Dashboard(ctx context.Context, userID string, f models.DateFilter) (models.Summary, error) {
	key := f.Key()
	cacheable := false
	var version int64
	if s.cache != nil {
		summary, v, ok, err := s.cache.GetSummary(ctx, userID, key)
		switch {
		case err != nil:
			s.logger.Warn("summary cache read failed", zap.String("user_id", userID), zap.Error(err))
		case ok:
			return summary, nil
		default:
			cacheable, version = true, v
		}
	}

	orders, expenses, err := s.load(ctx, userID, f)
	if err != nil {
		return models.Summary{}, err
	}
	summary := Summarize(orders, expenses, s.location)

	if cacheable {
		if err := s.cache.SetSummary(ctx, userID, version, key, summary); err != nil {
			s.logger.Warn("summary cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return summary, nil
}

// Report returns the summary together with the records it covers, newest
// first.
func (s *Service) Report(ctx context.Context, user models.User, f models.DateFilter) (models.Report, error) {
	orders, expenses, err := s.load(ctx, user.ID, f)
	if err != nil {
		return models.Report{}, err
	}

	sort.SliceStable(orders, func(i, j int) bool { return orders[i].Date.After(orders[j].Date) })
	sort.SliceStable(expenses, func(i, j int) bool { return expenses[i].Date.After(expenses[j].Date) })

	return models.Report{
		UserID:   user.ID,
		ShopName: user.ShopName,
		Period:   f.Label(),
		Summary:  Summarize(orders, expenses, s.location),
		Orders:   orders,
		Expenses: expenses,
		Location: s.location,
	}, nil
}

// SaveDailySnapshot computes the summary of the calendar day containing day
// and stores it, replacing any earlier snapshot of that day.
func (s *Service) SaveDailySnapshot(ctx context.Context, userID string, day time.Time) (models.DailyReport, error) {
	if s.snapshots == nil {
		return models.DailyReport{}, fmt.Errorf("snapshot store not configured")
	}

	f := models.DateFilter{Mode: models.FilterToday, Today: day, Location: s.location}
	orders, expenses, err := s.load(ctx, userID, f)
	if err != nil {
		return models.DailyReport{}, err
	}

	report := models.NewDailyReport(userID, day.In(s.location).Format(models.DateLayout), Summarize(orders, expenses, s.location), s.now().UTC())
	if err := s.snapshots.SaveDailyReport(ctx, report); err != nil {
		return models.DailyReport{}, fmt.Errorf("save daily report: %w", err)
	}

	s.logger.Info("daily report saved", zap.String("user_id", userID), zap.String("date", report.Date), zap.Int("orders", report.TotalOrders))
	return report, nil
}

// History lists the latest stored daily snapshots of a user, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]models.DailyReport, error) {
	if s.snapshots == nil {
		return []models.DailyReport{}, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	reports, err := s.snapshots.FindDailyReports(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("load daily reports: %w", err)
	}
	return reports, nil
}

// load fetches orders and expenses in parallel and applies f to both.
func (s *Service) load(ctx context.Context, userID string, f models.DateFilter) ([]models.Order, []models.Expense, error) {
	r := f.Bounds()

	var (
		orders   []models.Order
		expenses []models.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.orders.ListOrders(gctx, userID, r)
		if err != nil {
			return fmt.Errorf("load orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = s.expenses.ListExpenses(gctx, userID, r)
		if err != nil {
			return fmt.Errorf("load expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return FilterOrders(orders, f), FilterExpenses(expenses, f), nil
}
