package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/washify/internal/config"
	"github.com/mamadbah2/washify/internal/domain/models"
	"github.com/mamadbah2/washify/internal/server/handlers"
	"github.com/mamadbah2/washify/internal/service/users"
)

type rejectAll struct{}

func (rejectAll) Authenticate(context.Context, string) (models.User, error) {
	return models.User{}, users.ErrUnauthorized
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func newTestEngine(store Pinger) http.Handler {
	clock := handlers.Clock{}
	return New(Dependencies{
		Auth:       rejectAll{},
		CookieName: "washify_session",
		Users:      handlers.NewUserHandler(nil, config.AuthConfig{CookieName: "washify_session"}, nil),
		Orders:     handlers.NewOrderHandler(nil, clock, nil),
		Expenses:   handlers.NewExpenseHandler(nil, clock, nil),
		Reports:    handlers.NewReportHandler(nil, nil, clock, nil),
		Store:      store,
	}, nil)
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := serve(newTestEngine(nil), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestReady(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(newTestEngine(pinger{}), http.MethodGet, "/readyz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(newTestEngine(pinger{err: errors.New("down")}), http.MethodGet, "/readyz").Code)
}

func TestPrivateRoutesRequireSession(t *testing.T) {
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/users/validate"},
		{http.MethodGet, "/api/users/profile"},
		{http.MethodPut, "/api/users/profile"},
		{http.MethodGet, "/api/orders"},
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/orders/abc"},
		{http.MethodPut, "/api/orders/abc"},
		{http.MethodDelete, "/api/orders/abc"},
		{http.MethodGet, "/api/orders/abc/qrcode"},
		{http.MethodGet, "/api/expenses"},
		{http.MethodPost, "/api/expenses"},
		{http.MethodGet, "/api/expenses/abc"},
		{http.MethodPut, "/api/expenses/abc"},
		{http.MethodDelete, "/api/expenses/abc"},
		{http.MethodGet, "/api/dashboard"},
		{http.MethodGet, "/api/reports"},
		{http.MethodGet, "/api/reports/export"},
		{http.MethodGet, "/api/reports/daily"},
		{http.MethodPost, "/api/reports/sheets"},
	}

	h := newTestEngine(nil)
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			req := httptest.NewRequest(rt.method, rt.path, nil)
			req.Header.Set("Authorization", "Bearer stale")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestLogoutIsPublic(t *testing.T) {
	w := serve(newTestEngine(nil), http.MethodPost, "/api/users/logout")
	assert.Equal(t, http.StatusOK, w.Code)
}
