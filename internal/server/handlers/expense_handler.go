package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/washify/internal/domain/models"
	"github.com/mamadbah2/washify/internal/service/expenses"
)

// ExpenseService describes the expense operations the HTTP layer needs.
type ExpenseService interface {
	Create(ctx context.Context, userID string, in expenses.CreateInput) (models.Expense, error)
	List(ctx context.Context, userID string, f models.DateFilter) ([]models.Expense, error)
	Get(ctx context.Context, userID, id string) (models.Expense, error)
	Update(ctx context.Context, userID, id string, u models.ExpenseUpdate) (models.Expense, error)
	Delete(ctx context.Context, userID, id string) error
}

// ExpenseHandler serves the /api/expenses resource.
type ExpenseHandler struct {
	svc    ExpenseService
	clock  Clock
	logger *zap.Logger
}

// NewExpenseHandler builds an ExpenseHandler.
func NewExpenseHandler(svc ExpenseService, clock Clock, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{svc: svc, clock: clock, logger: orNop(logger)}
}

type createExpenseRequest struct {
	Category string           `json:"category" validate:"required,max=60"`
	Amount   *decimal.Decimal `json:"amount" validate:"required"`
	Date     string           `json:"date"`
}

type updateExpenseRequest struct {
	Category *string          `json:"category" validate:"omitempty,max=60"`
	Amount   *decimal.Decimal `json:"amount"`
	Date     *string          `json:"date"`
}

// List handles GET /api/expenses.
func (h *ExpenseHandler) List(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{"expenses": list, "count": len(list)})
}

// Create handles POST /api/expenses.
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req createExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := h.clock.recordDate(req.Date)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.svc.Create(c.Request.Context(), currentUser(c).ID, expenses.CreateInput{
		Category: req.Category,
		Amount:   *req.Amount,
		Date:     date,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// Get handles GET /api/expenses/:id.
func (h *ExpenseHandler) Get(c *gin.Context) {
	expense, err := h.svc.Get(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Update handles PUT /api/expenses/:id.
func (h *ExpenseHandler) Update(c *gin.Context) {
	var req updateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	u := models.ExpenseUpdate{Category: req.Category, Amount: req.Amount}
	if req.Date != nil {
		date, err := models.ParseRecordDate(*req.Date, h.clock.location())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		u.Date = &date
	}

	expense, err := h.svc.Update(c.Request.Context(), currentUser(c).ID, c.Param("id"), u)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Delete handles DELETE /api/expenses/:id.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
