package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/washify/internal/server/handlers"
)

// Pinger checks that a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies groups what the router mounts.
type Dependencies struct {
	Auth       handlers.Authenticator
	CookieName string
	Users      *handlers.UserHandler
	Orders     *handlers.OrderHandler
	Expenses   *handlers.ExpenseHandler
	Reports    *handlers.ReportHandler
	Store      Pinger
}

// New wires the Gin engine with required routes and middlewares.
func New(deps Dependencies, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestID())
	r.Use(handlers.Logger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		if deps.Store != nil {
			if err := deps.Store.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	api := r.Group("/api")
	api.POST("/users/signup", deps.Users.Signup)
	api.POST("/users/login", deps.Users.Login)
	api.POST("/users/logout", deps.Users.Logout)
	api.POST("/check-email", deps.Users.CheckEmail)

	private := api.Group("")
	private.Use(handlers.RequireAuth(deps.Auth, deps.CookieName, logger))

	private.GET("/users/validate", deps.Users.Validate)
	private.GET("/users/profile", deps.Users.Profile)
	private.PUT("/users/profile", deps.Users.UpdateProfile)

	private.GET("/orders", deps.Orders.List)
	private.POST("/orders", deps.Orders.Create)
	private.GET("/orders/:id", deps.Orders.Get)
	private.PUT("/orders/:id", deps.Orders.Update)
	private.DELETE("/orders/:id", deps.Orders.Delete)
	private.GET("/orders/:id/qrcode", deps.Orders.PickupTag)

	private.GET("/expenses", deps.Expenses.List)
	private.POST("/expenses", deps.Expenses.Create)
	private.GET("/expenses/:id", deps.Expenses.Get)
	private.PUT("/expenses/:id", deps.Expenses.Update)
	private.DELETE("/expenses/:id", deps.Expenses.Delete)

	private.GET("/dashboard", deps.Reports.Dashboard)
	private.GET("/reports", deps.Reports.Report)
	private.GET("/reports/export", deps.Reports.Export)
	private.GET("/reports/daily", deps.Reports.History)
	private.POST("/reports/sheets", deps.Reports.PushSheets)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}
