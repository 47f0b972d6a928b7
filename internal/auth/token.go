// Package auth hashes passwords and issues encrypted session tokens.
package auth

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/square/go-jose/v3"
	"golang.org/x/crypto/hkdf"
)

const keyInfo = "Washify session encryption key"

var (
	// ErrInvalidToken reports a token that cannot be decrypted or parsed.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrExpiredToken reports a well-formed token past its expiry.
	ErrExpiredToken = errors.New("session token expired")
)

// Claims is the payload sealed inside a session token.
type Claims struct {
	Subject   string `json:"sub"`
	Email     string `json:"email"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// TokenManager issues and verifies JWE session tokens (dir + A256GCM) keyed
// by a secret stretched through HKDF-SHA256.
type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenManager derives the encryption key from secret.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	key, err := deriveKey([]byte(secret))
	if err != nil {
		return nil, err
	}
	return &TokenManager{key: key, ttl: ttl, now: time.Now}, nil
}

func deriveKey(secret []byte) ([]byte, error) {
	h := hkdf.New(sha256.New, secret, nil, []byte(keyInfo))
	key := make([]byte, 32)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, fmt.Errorf("derive token key: %w", err)
	}
	return key, nil
}

// TTL returns the lifetime of issued tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue seals a new token for the user and reports when it expires.
func (m *TokenManager) Issue(userID, email string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		Subject:   userID,
		Email:     email,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("encode claims: %w", err)
	}

	encrypter, err := jose.NewEncrypter(jose.A256GCM, jose.Recipient{Algorithm: jose.DIRECT, Key: m.key}, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("create encrypter: %w", err)
	}
	object, err := encrypter.Encrypt(payload)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("encrypt claims: %w", err)
	}
	token, err := object.CompactSerialize()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("serialize token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify decrypts token and checks its validity window.
func (m *TokenManager) Verify(token string) (Claims, error) {
	object, err := jose.ParseEncrypted(token)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	payload, err := object.Decrypt(m.key)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	now := m.now().Unix()
	if now >= claims.ExpiresAt {
		return Claims{}, ErrExpiredToken
	}
	if now < claims.IssuedAt {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
