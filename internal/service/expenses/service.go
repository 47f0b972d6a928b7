package expenses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/washify/internal/domain/models"
	"github.com/mamadbah2/washify/internal/events"
)

var (
	// ErrNotFound is returned when the expense does not exist or belongs to
	// another user.
	ErrNotFound = errors.New("expense not found")
	// ErrInvalidExpense is returned for expenses that fail validation.
	ErrInvalidExpense = errors.New("invalid expense")
)

// Repository persists expenses scoped by user id.
type Repository interface {
	CreateExpense(ctx context.Context, e models.Expense) (models.Expense, error)
	ListExpenses(ctx context.Context, userID string, r models.DateRange) ([]models.Expense, error)
	GetExpense(ctx context.Context, userID, id string) (models.Expense, error)
	UpdateExpense(ctx context.Context, userID, id string, u models.ExpenseUpdate, at time.Time) (models.Expense, error)
	DeleteExpense(ctx context.Context, userID, id string) error
}

// CacheInvalidator drops a user's cached summaries after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// CreateInput holds the fields of a new expense. A zero Date means now.
type CreateInput struct {
	Category string
	Amount   decimal.Decimal
	Date     time.Time
}

// Service manages the expenses of shop accounts.
type Service struct {
	repo      Repository
	cache     CacheInvalidator
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new expenses service. cache and publisher may be nil.
func NewService(repo Repository, cache CacheInvalidator, publisher events.Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{repo: repo, cache: cache, publisher: publisher, logger: logger, now: time.Now}
}

// Create validates and stores a new expense for userID.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (models.Expense, error) {
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		return models.Expense{}, fmt.Errorf("%w: category is required", ErrInvalidExpense)
	}
	if in.Amount.IsNegative() {
		return models.Expense{}, fmt.Errorf("%w: amount must not be negative", ErrInvalidExpense)
	}

	now := s.now().UTC()
	if in.Date.IsZero() {
		in.Date = now
	}

	expense, err := s.repo.CreateExpense(ctx, models.Expense{
		UserID:    userID,
		Category:  in.Category,
		Amount:    in.Amount,
		Date:      in.Date,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return models.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	s.changed(ctx, events.ExpenseCreated, expense)
	return expense, nil
}

// List returns the user's expenses selected by f, newest first.
func (s *Service) List(ctx context.Context, userID string, f models.DateFilter) ([]models.Expense, error) {
	stored, err := s.repo.ListExpenses(ctx, userID, f.Bounds())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	expenses := make([]models.Expense, 0, len(stored))
	for _, e := range stored {
		if f.Includes(e.Date) {
			expenses = append(expenses, e)
		}
	}
	return expenses, nil
}

// Get returns one of the user's expenses.
func (s *Service) Get(ctx context.Context, userID, id string) (models.Expense, error) {
	expense, err := s.repo.GetExpense(ctx, userID, id)
	if err != nil {
		return models.Expense{}, translate(err, "get expense")
	}
	return expense, nil
}

// Update changes the category, amount and/or date of an expense.
func (s *Service) Update(ctx context.Context, userID, id string, u models.ExpenseUpdate) (models.Expense, error) {
	if u.Empty() {
		return models.Expense{}, fmt.Errorf("%w: nothing to update", ErrInvalidExpense)
	}
	if u.Category != nil {
		category := strings.TrimSpace(*u.Category)
		if category == "" {
			return models.Expense{}, fmt.Errorf("%w: category must not be empty", ErrInvalidExpense)
		}
		u.Category = &category
	}
	if u.Amount != nil && u.Amount.IsNegative() {
		return models.Expense{}, fmt.Errorf("%w: amount must not be negative", ErrInvalidExpense)
	}
	if u.Date != nil && u.Date.IsZero() {
		return models.Expense{}, fmt.Errorf("%w: date must not be empty", ErrInvalidExpense)
	}

	expense, err := s.repo.UpdateExpense(ctx, userID, id, u, s.now().UTC())
	if err != nil {
		return models.Expense{}, translate(err, "update expense")
	}

	s.changed(ctx, events.ExpenseUpdated, expense)
	return expense, nil
}

// Delete removes one of the user's expenses.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteExpense(ctx, userID, id); err != nil {
		return translate(err, "delete expense")
	}

	s.changed(ctx, events.ExpenseDeleted, models.Expense{ID: id, UserID: userID})
	return nil
}

func (s *Service) changed(ctx context.Context, eventType string, expense models.Expense) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, expense.UserID); err != nil {
			s.logger.Warn("summary cache invalidation failed", zap.String("user_id", expense.UserID), zap.Error(err))
		}
	}

	event := events.Event{
		Type:       eventType,
		UserID:     expense.UserID,
		EntityID:   expense.ID,
		OccurredAt: s.now().UTC(),
	}
	if eventType != events.ExpenseDeleted {
		event.Payload = expense
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", eventType), zap.String("expense_id", expense.ID), zap.Error(err))
	}
}

func translate(err error, op string) error {
	if errors.Is(err, models.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
