package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/washify/internal/domain/models"
	"github.com/mamadbah2/washify/internal/service/expenses"
	"github.com/mamadbah2/washify/internal/service/export"
	"github.com/mamadbah2/washify/internal/service/orders"
	"github.com/mamadbah2/washify/internal/service/users"
)

const userKey = "washify.user"

// errNotConfigured marks an optional integration that is switched off.
var errNotConfigured = errors.New("integration not configured")

// Clock supplies the current time and the shop time zone to filter parsing.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c Clock) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// filter reads the date filter query parameters of the request.
func (c Clock) filter(ctx *gin.Context, defaultMode models.FilterMode) (models.DateFilter, error) {
	var q models.FilterQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		return models.DateFilter{}, errors.Join(models.ErrInvalidFilter, err)
	}
	return models.ParseDateFilter(q, defaultMode, c.now(), c.location())
}

// recordDate parses an optional date field of a request body. Empty means
// zero, which services replace with now.
func (c Clock) recordDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return models.ParseRecordDate(value, c.location())
}

func currentUser(c *gin.Context) models.User {
	user, _ := c.Get(userKey)
	u, _ := user.(models.User)
	return u
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidFilter), errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, users.ErrInvalidCredentials), errors.Is(err, users.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, expenses.ErrNotFound), errors.Is(err, users.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, users.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, orders.ErrInvalidOrder), errors.Is(err, expenses.ErrInvalidExpense), errors.Is(err, users.ErrInvalidUser):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error body. Internal failures are logged
// and hidden from the client.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
