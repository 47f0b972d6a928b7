package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/mamadbah2/washify/internal/domain/models"
	"github.com/mamadbah2/washify/internal/events"
)

const qrSize = 256

var (
	// ErrNotFound is returned when the order does not exist or belongs to
	// another user.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidOrder is returned for orders that fail validation.
	ErrInvalidOrder = errors.New("invalid order")
)

// Repository persists orders scoped by user id.
type Repository interface {
	CreateOrder(ctx context.Context, o models.Order) (models.Order, error)
	ListOrders(ctx context.Context, userID string, r models.DateRange) ([]models.Order, error)
	GetOrder(ctx context.Context, userID, id string) (models.Order, error)
	UpdateOrder(ctx context.Context, userID, id string, u models.OrderUpdate, at time.Time) (models.Order, error)
	DeleteOrder(ctx context.Context, userID, id string) error
}

// CacheInvalidator drops a user's cached summaries after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// CreateInput holds the fields of a new order. A zero Date means now and an
// empty PaymentStatus means Pending.
type CreateInput struct {
	Customer      string
	Service       models.ServiceType
	Price         decimal.Decimal
	PaymentStatus models.PaymentStatus
	Date          time.Time
}

// Service manages the orders of shop accounts.
type Service struct {
	repo      Repository
	cache     CacheInvalidator
	publisher events.Publisher
	location  *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new orders service. cache and publisher may be nil;
// location is the shop time zone printed on pickup tags.
func NewService(repo Repository, cache CacheInvalidator, publisher events.Publisher, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{repo: repo, cache: cache, publisher: publisher, location: location, logger: logger, now: time.Now}
}

// Create validates and stores a new order for userID.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (models.Order, error) {
	in.Customer = strings.TrimSpace(in.Customer)
	if in.PaymentStatus == "" {
		in.PaymentStatus = models.PaymentPending
	}
	if err := validate(in); err != nil {
		return models.Order{}, err
	}

	now := s.now().UTC()
	if in.Date.IsZero() {
		in.Date = now
	}

	order, err := s.repo.CreateOrder(ctx, models.Order{
		UserID:        userID,
		Customer:      in.Customer,
		Service:       in.Service,
		Price:         in.Price,
		PaymentStatus: in.PaymentStatus,
		Date:          in.Date,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.changed(ctx, events.OrderCreated, order)
	return order, nil
}

func validate(in CreateInput) error {
	switch {
	case in.Customer == "":
		return fmt.Errorf("%w: customer is required", ErrInvalidOrder)
	case !in.Service.Valid():
		return fmt.Errorf("%w: unknown service %q", ErrInvalidOrder, in.Service)
	case in.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidOrder)
	case !in.PaymentStatus.Valid():
		return fmt.Errorf("%w: unknown payment status %q", ErrInvalidOrder, in.PaymentStatus)
	}
	return nil
}

// List returns the user's orders selected by f, newest first.
func (s *Service) List(ctx context.Context, userID string, f models.DateFilter) ([]models.Order, error) {
	stored, err := s.repo.ListOrders(ctx, userID, f.Bounds())
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]models.Order, 0, len(stored))
	for _, o := range stored {
		if f.Includes(o.Date) {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

// Get returns one of the user's orders.
func (s *Service) Get(ctx context.Context, userID, id string) (models.Order, error) {
	order, err := s.repo.GetOrder(ctx, userID, id)
	if err != nil {
		return models.Order{}, translate(err, "get order")
	}
	return order, nil
}

// Update changes the price and/or payment status of an order.
func (s *Service) Update(ctx context.Context, userID, id string, u models.OrderUpdate) (models.Order, error) {
	if u.Empty() {
		return models.Order{}, fmt.Errorf("%w: nothing to update", ErrInvalidOrder)
	}
	if u.Price != nil && u.Price.IsNegative() {
		return models.Order{}, fmt.Errorf("%w: price must not be negative", ErrInvalidOrder)
	}
	if u.PaymentStatus != nil && !u.PaymentStatus.Valid() {
		return models.Order{}, fmt.Errorf("%w: unknown payment status %q", ErrInvalidOrder, *u.PaymentStatus)
	}

	order, err := s.repo.UpdateOrder(ctx, userID, id, u, s.now().UTC())
	if err != nil {
		return models.Order{}, translate(err, "update order")
	}

	s.changed(ctx, events.OrderUpdated, order)
	return order, nil
}

// Delete removes one of the user's orders.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteOrder(ctx, userID, id); err != nil {
		return translate(err, "delete order")
	}

	s.changed(ctx, events.OrderDeleted, models.Order{ID: id, UserID: userID})
	return nil
}

// PickupTag renders a PNG QR code identifying the order for pickup.
func (s *Service) PickupTag(ctx context.Context, userID, id string) ([]byte, error) {
	order, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(PickupCode(order, s.location), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode pickup tag: %w", err)
	}
	return png, nil
}

// PickupCode is the text encoded in an order's pickup tag. The date is the
// order's calendar day in loc.
func PickupCode(o models.Order, loc *time.Location) string {
	return fmt.Sprintf("WASHIFY:%s|%s|%s|%s", o.ID, o.Customer, o.Service, o.Date.In(loc).Format(models.DateLayout))
}

func (s *Service) changed(ctx context.Context, eventType string, order models.Order) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, order.UserID); err != nil {
			s.logger.Warn("summary cache invalidation failed", zap.String("user_id", order.UserID), zap.Error(err))
		}
	}

	event := events.Event{
		Type:       eventType,
		UserID:     order.UserID,
		EntityID:   order.ID,
		OccurredAt: s.now().UTC(),
	}
	if eventType != events.OrderDeleted {
		event.Payload = order
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", eventType), zap.String("order_id", order.ID), zap.Error(err))
	}
}

func translate(err error, op string) error {
	if errors.Is(err, models.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
