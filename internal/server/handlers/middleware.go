package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/washify/internal/domain/models"
)

const (
	requestIDKey    = "washify.request_id"
	requestIDHeader = "X-Request-ID"
)

// Authenticator resolves a session token to its account.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

// RequestID tags every request with an id, reusing the caller's when sent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// Logger logs one line per completed request.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	logger = orNop(logger)

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDKey)))
	}
}

// RequireAuth rejects requests without a valid session. The token is read
// from the Authorization bearer header, then from the session cookie.
func RequireAuth(auth Authenticator, cookieName string, logger *zap.Logger) gin.HandlerFunc {
	logger = orNop(logger)

	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && cookieName != "" {
			token, _ = c.Cookie(cookieName)
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
