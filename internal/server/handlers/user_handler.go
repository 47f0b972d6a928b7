package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/washify/internal/config"
	"github.com/mamadbah2/washify/internal/domain/models"
	"github.com/mamadbah2/washify/internal/service/users"
)

// UserService describes the account operations the HTTP layer needs.
type UserService interface {
	Authenticator
	Signup(ctx context.Context, in users.SignupInput) (models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Login(ctx context.Context, email, password string) (users.Session, error)
	Profile(ctx context.Context, userID string) (models.User, error)
	UpdateProfile(ctx context.Context, userID string, u models.ProfileUpdate) (models.User, error)
}

// UserHandler serves signup, login and the shop profile.
type UserHandler struct {
	svc    UserService
	cookie config.AuthConfig
	logger *zap.Logger
}

// NewUserHandler builds a UserHandler. cookie configures the session cookie
// set on login.
func NewUserHandler(svc UserService, cookie config.AuthConfig, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, cookie: cookie, logger: orNop(logger)}
}

type signupRequest struct {
	FullName string `json:"fullName" validate:"required,max=120"`
	ShopName string `json:"shopName" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,passwordbytes"`
	Logo     string `json:"logo" validate:"omitempty,url"`
	Address  string `json:"address" validate:"max=255"`
	Phone    string `json:"phone" validate:"max=32"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type checkEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type profileRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,max=120"`
	ShopName *string `json:"shopName" validate:"omitempty,max=120"`
	Logo     *string `json:"logo" validate:"omitempty,url"`
	Address  *string `json:"address" validate:"omitempty,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
}

// Signup handles POST /api/users/signup.
func (h *UserHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.svc.Signup(c.Request.Context(), users.SignupInput{
		FullName: req.FullName,
		ShopName: req.ShopName,
		Email:    req.Email,
		Password: req.Password,
		Logo:     req.Logo,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login handles POST /api/users/login. The token is returned in the body and
// set as an HTTP-only cookie.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, session.Token, int(h.cookie.TokenTTL.Seconds()), "/", "", h.cookie.SecureCookie, true)
	c.JSON(http.StatusOK, session)
}

// Logout handles POST /api/users/logout.
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// CheckEmail handles POST /api/check-email.
func (h *UserHandler) CheckEmail(c *gin.Context) {
	var req checkEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	exists, err := h.svc.EmailExists(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// Validate handles GET /api/users/validate. RequireAuth has already resolved
// the session.
func (h *UserHandler) Validate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"valid": true, "user": currentUser(c)})
}

// Profile handles GET /api/users/profile.
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.svc.Profile(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/users/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), currentUser(c).ID, models.ProfileUpdate{
		FullName: req.FullName,
		ShopName: req.ShopName,
		Logo:     req.Logo,
		Address:  req.Address,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
