package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/washify/internal/domain/models"
	"github.com/mamadbah2/washify/internal/service/orders"
)

func orderRoutes(svc *mockOrderService) http.Handler {
	h := NewOrderHandler(svc, testClock, nil)
	r := newEngine()
	r.GET("/orders", h.List)
	r.POST("/orders", h.Create)
	r.GET("/orders/:id", h.Get)
	r.PUT("/orders/:id", h.Update)
	r.DELETE("/orders/:id", h.Delete)
	r.GET("/orders/:id/qrcode", h.PickupTag)
	return r
}

func TestCreateOrder(t *testing.T) {
	svc := new(mockOrderService)
	svc.On("Create", mock.Anything, "u1", mock.MatchedBy(func(in orders.CreateInput) bool {
		return in.Customer == "Bola" &&
			in.Service == models.ServiceDryCleaning &&
			in.Price.Equal(decimal.RequireFromString("1500.50")) &&
			in.PaymentStatus == "" &&
			in.Date.Equal(time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC))
	})).Return(models.Order{ID: "o1", Customer: "Bola"}, nil).Once()

	w := do(orderRoutes(svc), http.MethodPost, "/orders", `{"customer":"Bola","service":"Dry Cleaning","price":"1500.50","date":"2024-03-10"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"o1"`)
	svc.AssertExpectations(t)
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"missing price", `{"customer":"Bola","service":"Washing"}`, nil, http.StatusUnprocessableEntity},
		{"bad payment status", `{"customer":"Bola","service":"Washing","price":10,"paymentStatus":"Later"}`, nil, http.StatusUnprocessableEntity},
		{"bad date", `{"customer":"Bola","service":"Washing","price":10,"date":"tomorrow"}`, nil, http.StatusUnprocessableEntity},
		{"price not a number", `{"customer":"Bola","service":"Washing","price":"ten"}`, nil, http.StatusBadRequest},
		{"rejected by service", `{"customer":"Bola","service":"Folding","price":10}`, orders.ErrInvalidOrder, http.StatusUnprocessableEntity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockOrderService)
			if tc.err != nil {
				svc.On("Create", mock.Anything, "u1", mock.Anything).Return(models.Order{}, tc.err).Once()
			}

			w := do(orderRoutes(svc), http.MethodPost, "/orders", tc.body)

			assert.Equal(t, tc.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestListOrdersParsesFilter(t *testing.T) {
	svc := new(mockOrderService)
	svc.On("List", mock.Anything, "u1", mock.MatchedBy(func(f models.DateFilter) bool {
		return f.Mode == models.FilterMonth && f.Month == 2 && f.Year == 2024
	})).Return([]models.Order{{ID: "o1"}, {ID: "o2"}}, nil).Once()

	w := do(orderRoutes(svc), http.MethodGet, "/orders?mode=month&month=2&year=2024", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)
	svc.AssertExpectations(t)
}

func TestListOrdersDefaultsToAll(t *testing.T) {
	svc := new(mockOrderService)
	svc.On("List", mock.Anything, "u1", mock.MatchedBy(func(f models.DateFilter) bool {
		return f.Mode == models.FilterAll
	})).Return([]models.Order{}, nil).Once()

	w := do(orderRoutes(svc), http.MethodGet, "/orders", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"orders":[],"count":0}`, w.Body.String())
}

func TestListOrdersRejectsBadFilter(t *testing.T) {
	for _, q := range []string{"?mode=weekly", "?mode=month&month=13", "?mode=month&month=march"} {
		t.Run(q, func(t *testing.T) {
			w := do(orderRoutes(new(mockOrderService)), http.MethodGet, "/orders"+q, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateOrder(t *testing.T) {
	svc := new(mockOrderService)
	svc.On("Update", mock.Anything, "u1", "o1", mock.MatchedBy(func(u models.OrderUpdate) bool {
		return u.Price == nil && u.PaymentStatus != nil && *u.PaymentStatus == models.PaymentPaid
	})).Return(models.Order{ID: "o1", PaymentStatus: models.PaymentPaid}, nil).Once()

	w := do(orderRoutes(svc), http.MethodPut, "/orders/o1", `{"paymentStatus":"Paid"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"paymentStatus":"Paid"`)
	svc.AssertExpectations(t)
}

func TestOrderNotOwned(t *testing.T) {
	svc := new(mockOrderService)
	svc.On("Get", mock.Anything, "u1", "foreign").Return(models.Order{}, orders.ErrNotFound).Once()
	svc.On("Delete", mock.Anything, "u1", "foreign").Return(orders.ErrNotFound).Once()

	h := orderRoutes(svc)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/orders/foreign", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodDelete, "/orders/foreign", "").Code)
}

func TestDeleteOrder(t *testing.T) {
	svc := new(mockOrderService)
	svc.On("Delete", mock.Anything, "u1", "o1").Return(nil).Once()

	w := do(orderRoutes(svc), http.MethodDelete, "/orders/o1", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestPickupTag(t *testing.T) {
	png := []byte("\x89PNG\r\n")
	svc := new(mockOrderService)
	svc.On("PickupTag", mock.Anything, "u1", "o1").Return(png, nil).Once()

	w := do(orderRoutes(svc), http.MethodGet, "/orders/o1/qrcode", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, png, w.Body.Bytes())
}

func TestInternalErrorsAreHidden(t *testing.T) {
	svc := new(mockOrderService)
	svc.On("Get", mock.Anything, "u1", "o1").Return(models.Order{}, assert.AnError).Once()

	w := do(orderRoutes(svc), http.MethodGet, "/orders/o1", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}
