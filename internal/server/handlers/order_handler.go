package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/washify/internal/domain/models"
	"github.com/mamadbah2/washify/internal/service/orders"
)

// OrderService describes the order operations the HTTP layer needs.
type OrderService interface {
	Create(ctx context.Context, userID string, in orders.CreateInput) (models.Order, error)
	List(ctx context.Context, userID string, f models.DateFilter) ([]models.Order, error)
	Get(ctx context.Context, userID, id string) (models.Order, error)
	Update(ctx context.Context, userID, id string, u models.OrderUpdate) (models.Order, error)
	Delete(ctx context.Context, userID, id string) error
	PickupTag(ctx context.Context, userID, id string) ([]byte, error)
}

// OrderHandler serves the /api/orders resource.
type OrderHandler struct {
	svc    OrderService
	clock  Clock
	logger *zap.Logger
}

// NewOrderHandler builds an OrderHandler.
func NewOrderHandler(svc OrderService, clock Clock, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, clock: clock, logger: orNop(logger)}
}

type createOrderRequest struct {
	Customer      string           `json:"customer" validate:"required,max=120"`
	Service       string           `json:"service" validate:"required"`
	Price         *decimal.Decimal `json:"price" validate:"required"`
	PaymentStatus string           `json:"paymentStatus" validate:"omitempty,oneof=Paid Pending"`
	Date          string           `json:"date"`
}

type updateOrderRequest struct {
	Price         *decimal.Decimal `json:"price"`
	PaymentStatus *string          `json:"paymentStatus" validate:"omitempty,oneof=Paid Pending"`
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	f, err := h.clock.filter(c, models.FilterAll)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	list, err := h.svc.List(c.Request.Context(), currentUser(c).ID, f)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list, "count": len(list)})
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := h.clock.recordDate(req.Date)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	order, err := h.svc.Create(c.Request.Context(), currentUser(c).ID, orders.CreateInput{
		Customer:      req.Customer,
		Service:       models.ServiceType(req.Service),
		Price:         *req.Price,
		PaymentStatus: models.PaymentStatus(req.PaymentStatus),
		Date:          date,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.svc.Get(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Update handles PUT /api/orders/:id. Only price and payment status change.
func (h *OrderHandler) Update(c *gin.Context) {
	var req updateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	var u models.OrderUpdate
	u.Price = req.Price
	if req.PaymentStatus != nil {
		status := models.PaymentStatus(*req.PaymentStatus)
		u.PaymentStatus = &status
	}

	order, err := h.svc.Update(c.Request.Context(), currentUser(c).ID, c.Param("id"), u)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PickupTag handles GET /api/orders/:id/qrcode.
func (h *OrderHandler) PickupTag(c *gin.Context) {
	png, err := h.svc.PickupTag(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
