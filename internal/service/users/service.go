package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/washify/internal/auth"
	"github.com/mamadbah2/washify/internal/domain/models"
)

var (
	// ErrEmailTaken is returned on signup with an email already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned when email and password do not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized is returned for missing, invalid or expired sessions.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned when the account does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidUser is returned for signup or profile data that fails
	// validation.
	ErrInvalidUser = errors.New("invalid user")
)

// Repository persists shop accounts.
type Repository interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	UpdateProfile(ctx context.Context, id string, u models.ProfileUpdate, at time.Time) (models.User, error)
}

// Tokens issues and verifies session tokens.
type Tokens interface {
	Issue(userID, email string) (string, time.Time, error)
	Verify(token string) (auth.Claims, error)
}

// SignupInput holds the fields of a new account.
type SignupInput struct {
	FullName string
	ShopName string
	Email    string
	Password string
	Logo     string
	Address  string
	Phone    string
}

// Session is the result of a successful login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

// Service manages shop accounts and their sessions.
type Service struct {
	repo   Repository
	tokens Tokens
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new users service.
func NewService(repo Repository, tokens Tokens, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, tokens: tokens, logger: logger, now: time.Now}
}

// Signup creates an account. Emails are unique regardless of case.
func (s *Service) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.ShopName = strings.TrimSpace(in.ShopName)
	in.Email = normalizeEmail(in.Email)

	switch {
	case in.FullName == "":
		return models.User{}, fmt.Errorf("%w: full name is required", ErrInvalidUser)
	case in.ShopName == "":
		return models.User{}, fmt.Errorf("%w: shop name is required", ErrInvalidUser)
	case in.Email == "":
		return models.User{}, fmt.Errorf("%w: email is required", ErrInvalidUser)
	case in.Password == "":
		return models.User{}, fmt.Errorf("%w: password is required", ErrInvalidUser)
	}

	hash, err := auth.HashPassword(in.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return models.User{}, fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}
	if err != nil {
		return models.User{}, err
	}

	now := s.now().UTC()
	user, err := s.repo.CreateUser(ctx, models.User{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		ShopName:     in.ShopName,
		Logo:         strings.TrimSpace(in.Logo),
		Address:      strings.TrimSpace(in.Address),
		Phone:        strings.TrimSpace(in.Phone),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("account created", zap.String("user_id", user.ID))
	return user, nil
}

// EmailExists reports whether an account uses email.
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.FindUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find user: %w", err)
	}
	return true, nil
}

// Login checks the credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.repo.FindUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, models.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("find user: %w", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}

	return Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate resolves a session token to its account.
func (s *Service) Authenticate(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrUnauthorized
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	user, err := s.repo.FindUserByID(ctx, claims.Subject)
	if errors.Is(err, models.ErrNotFound) {
		return models.User{}, ErrUnauthorized
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// Profile returns the account of userID.
func (s *Service) Profile(ctx context.Context, userID string) (models.User, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateProfile edits the shop profile. Names may not be blanked; optional
// fields may be cleared with an empty string.
func (s *Service) UpdateProfile(ctx context.Context, userID string, u models.ProfileUpdate) (models.User, error) {
	if u.Empty() {
		return s.Profile(ctx, userID)
	}

	for _, field := range []**string{&u.FullName, &u.ShopName, &u.Logo, &u.Address, &u.Phone} {
		if *field != nil {
			trimmed := strings.TrimSpace(**field)
			*field = &trimmed
		}
	}
	if u.FullName != nil && *u.FullName == "" {
		return models.User{}, fmt.Errorf("%w: full name must not be empty", ErrInvalidUser)
	}
	if u.ShopName != nil && *u.ShopName == "" {
		return models.User{}, fmt.Errorf("%w: shop name must not be empty", ErrInvalidUser)
	}

	user, err := s.repo.UpdateProfile(ctx, userID, u, s.now().UTC())
	if errors.Is(err, models.ErrNotFound) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
